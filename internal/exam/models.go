package exam

// QuestionType is the closed set of question kinds.
type QuestionType string

const (
	TypeChoice QuestionType = "pg"
	TypeEssay  QuestionType = "essay"
)

func (t QuestionType) Valid() bool { return t == TypeChoice || t == TypeEssay }

// Exam is the catalog record. Questions holds the canonical ordered question
// ids; Log is the presence log, at most one entry per user, most recent
// entry last.
type Exam struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Grade     string   `json:"grade"`
	Durations string   `json:"durations"`
	Choice    string   `json:"choice"`
	Passing   string   `json:"passing"`
	TokenIn   string   `json:"tokenIn,omitempty"`
	TokenOut  string   `json:"tokenOut,omitempty"`
	Questions []string `json:"questions"`
	Log       []string `json:"log"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// ExamUpdate carries a partial update; nil fields are left untouched.
type ExamUpdate struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Subject   *string `json:"subject" validate:"omitempty,min=1"`
	Grade     *string `json:"grade" validate:"omitempty,min=1"`
	Durations *string `json:"durations"`
	Choice    *string `json:"choice"`
	Passing   *string `json:"passing"`
	TokenIn   *string `json:"tokenIn"`
	TokenOut  *string `json:"tokenOut"`
}

type Question struct {
	ID        string       `json:"id"`
	ExamID    string       `json:"examId"`
	Prompt    string       `json:"question"`
	Audio     string       `json:"audio,omitempty"`
	Image     string       `json:"img,omitempty"`
	Type      QuestionType `json:"type"`
	Options   OptionMap    `json:"options"`
	Answer    string       `json:"answer,omitempty"`
	CreatedAt int64        `json:"createdAt"`
}

type QuestionUpdate struct {
	Prompt  *string       `json:"question" validate:"omitempty,min=1"`
	Audio   *string       `json:"audio"`
	Image   *string       `json:"img"`
	Type    *QuestionType `json:"type"`
	Options *OptionMap    `json:"options"`
	Answer  *string       `json:"answer"`
}

// AnswerItem is one selected key for one question.
type AnswerItem struct {
	QuestionID string `json:"question"`
	Key        string `json:"key"`
}

// Answer is one submission for a (user, exam) attempt. FinalScore is always
// ScorePg + ScoreEssay at creation time; no record is updated afterwards.
type Answer struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user"`
	ExamID     string       `json:"exam"`
	Items      []AnswerItem `json:"answer,omitempty"`
	Correct    int          `json:"correct"`
	Wrong      int          `json:"wrong"`
	ScorePg    float64      `json:"scorePg"`
	ScoreEssay float64      `json:"scoreEssay"`
	FinalScore float64      `json:"finalScore"`
	CreatedAt  int64        `json:"createdAt"`
}
