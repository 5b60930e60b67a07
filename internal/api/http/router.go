package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edukita/schoolhub/internal/audit"
	"github.com/edukita/schoolhub/internal/auth"
	"github.com/edukita/schoolhub/internal/exam"
	"github.com/edukita/schoolhub/internal/rbac"
	"github.com/edukita/schoolhub/internal/records"
	"github.com/edukita/schoolhub/internal/school"
	"github.com/edukita/schoolhub/internal/storage"
)

// ActivitySource reads back recorded exam activity, newest-first.
type ActivitySource interface {
	Recent(ctx context.Context, key string, limit int) ([]audit.Event, error)
}

// API bundles the services behind the REST surface.
type API struct {
	Auth     *auth.Service
	School   *school.Service
	Exams    *exam.Service
	Records  records.Store
	Blobs    storage.BlobStore
	Activity ActivitySource
}

// Router mounts the whole surface. Role gates re-check the caller against
// the user directory on every request.
func (a *API) Router() chi.Router {
	authed := auth.Middleware(a.Auth, a.School)
	admin := rbac.Require(a.School, rbac.AdminOnly...)
	adminTeacher := rbac.Require(a.School, rbac.AdminTeacher...)
	student := rbac.Require(a.School, rbac.StudentOnly...)

	r := chi.NewRouter()

	r.Route("/user", func(r chi.Router) {
		r.Post("/admin/login", a.loginHandler(true))
		r.Post("/login", a.loginHandler(false))

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/profile", a.profileHandler())
			r.Put("/update-profile", a.updateProfileHandler())

			r.With(admin).Get("/admin/profile/{id}", a.getUserHandler())
			r.With(admin).Put("/admin/update-profile/{id}", a.updateUserHandler())
			r.With(admin).Put("/role/{id}", a.updateRoleHandler())

			r.With(admin).Post("/create", a.createUserHandler(rbac.RoleStudent))
			r.With(admin).Post("/upload", a.uploadUsersHandler(rbac.RoleStudent))
			r.With(admin).Get("/student/{id}", a.getUserHandler())
			r.With(admin).Put("/student/update/{id}", a.updateUserHandler())
			r.With(admin).Delete("/student/delete/{id}", a.deleteStudentHandler())
			r.With(admin).Delete("/students/delete", a.deleteAllStudentsHandler())

			r.With(admin).Post("/teacher/create", a.createUserHandler(rbac.RoleTeacher))
			r.With(admin).Post("/teacher/upload", a.uploadUsersHandler(rbac.RoleTeacher))
			r.With(admin).Get("/teachers-all", a.listUsersHandler(rbac.RoleTeacher))
			r.With(admin).Get("/teacher/{id}", a.getUserHandler())
			r.With(admin).Put("/teacher/update/{id}", a.updateUserHandler())
			r.With(admin).Delete("/teacher/delete/{id}", a.deleteTeacherHandler())
			r.With(admin).Delete("/teachers/delete", a.deleteAllTeachersHandler())
		})

		// unauthenticated: the public site renders the roster without a login
		r.Get("/students/all", a.listStudentsPublicHandler())
	})

	r.Route("/exam", func(r chi.Router) {
		r.Use(authed)

		r.With(adminTeacher).Post("/create", a.createExamHandler())
		r.With(admin).Get("/get-all", a.listExamsHandler())
		r.With(adminTeacher).Get("/teacher/my-exam", a.myExamsHandler())
		r.With(adminTeacher).Put("/update/{id}", a.updateExamHandler())
		r.With(adminTeacher).Delete("/delete/{id}", a.deleteExamHandler())

		r.With(adminTeacher).Post("/create-question", a.createQuestionHandler())
		r.With(adminTeacher).Post("/{id}/question-upload", a.uploadQuestionsHandler())
		r.With(adminTeacher).Get("/{id}/questions-all", a.listQuestionsHandler())
		r.With(adminTeacher).Get("/question/{id}", a.getQuestionHandler())
		r.With(adminTeacher).Put("/question/update/{id}", a.updateQuestionHandler())
		r.With(adminTeacher).Delete("/{id}/delete-all-questions", a.clearQuestionsHandler())

		r.With(admin).Get("/{id}/activity", a.examActivityHandler())
		r.With(student).Get("/my-exam/{grade}", a.examsByGradeHandler())
		r.With(student).Get("/{id}/start-exam", a.startExamHandler())
		r.Post("/{id}/logged-user", a.logEntryHandler())
		r.With(admin).Delete("/{id}/remove-logged-user/{user}", a.removeLogEntryHandler())
		r.With(adminTeacher).Delete("/{id}/reset-user/{user}", a.resetUserHandler())

		r.Route("/answer", func(r chi.Router) {
			r.With(student).Post("/student-answer/save", a.saveAnswerHandler())
			r.With(adminTeacher).Get("/admin/get-all", a.listAnswersHandler())
			r.Get("/my-answers", a.myAnswersHandler())
		})

		r.Get("/{id}", a.examDetailHandler())
	})

	// routine CRUD resources over the generic record store
	for _, res := range []struct{ path, collection string }{
		{"/class", "classes"},
		{"/grade", "grades"},
		{"/major", "majors"},
		{"/news", "news"},
		{"/activity", "activities"},
		{"/ebook", "ebooks"},
		{"/fee", "fees"},
		{"/web", "web"},
	} {
		res := res
		r.Route(res.path, func(r chi.Router) {
			a.mountRecordCRUD(r, res.collection, authed, admin)
		})
	}
	r.Route("/payment", func(r chi.Router) {
		r.With(authed).Get("/user/{id}", a.listRecordsByHandler("payments", "user"))
		a.mountRecordCRUD(r, "payments", authed, admin)
	})

	r.Route("/assets", func(r chi.Router) {
		r.With(authed, adminTeacher).Post("/upload", a.uploadAssetHandler())
		r.Get("/*", a.getAssetHandler())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
