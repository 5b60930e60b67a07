package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edukita/schoolhub/internal/rbac"
	"github.com/edukita/schoolhub/internal/school"
)

// loginHandler verifies credentials and issues the session token. The admin
// entry point additionally rejects non-admin accounts.
func (a *API) loginHandler(adminOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username" validate:"required"`
			Password string `json:"password" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, "username and password required")
			return
		}
		u, err := a.School.Users().GetByUsername(r.Context(), req.Username)
		if err == school.ErrNotFound {
			message(w, http.StatusNotFound, "wrong username")
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		if !school.CheckPassword(u, req.Password) {
			message(w, http.StatusNotFound, "wrong password")
			return
		}
		if adminOnly && u.Role != rbac.RoleAdmin {
			message(w, http.StatusForbidden, "you do not have access to this resource")
			return
		}
		token, err := a.Auth.Issue(u.ID, u.Role.String())
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       u.ID,
			"name":     u.Name,
			"username": u.Username,
			"nis":      u.NIS,
			"major":    u.Major,
			"grade":    u.Grade,
			"class":    u.Class,
			"email":    u.Email,
			"phone":    u.Phone,
			"role":     u.Role,
			"token":    token,
		})
	}
}

func (a *API) profileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := rbac.IdentityFromContext(r.Context())
		u, err := a.School.Users().Get(r.Context(), id.ID)
		if err == school.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// updateProfileHandler lets the caller edit their own account.
func (a *API) updateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req school.UserUpdate
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		id, _ := rbac.IdentityFromContext(r.Context())
		u, err := a.School.UpdateUser(r.Context(), id.ID, req)
		if err == school.ErrExists {
			badRequest(w, "username already taken")
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "profile updated", "user": u})
	}
}

func (a *API) getUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := a.School.Users().Get(r.Context(), chi.URLParam(r, "id"))
		if err == school.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (a *API) createUserHandler(role rbac.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req school.NewUser
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		u, err := a.School.CreateUser(r.Context(), req, role)
		if err == school.ErrExists {
			badRequest(w, "username already taken")
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "account created", "user": u})
	}
}

// uploadUsersHandler ingests a CSV account upload. Rows are persisted
// sequentially; on failure the response still reports how many rows were
// saved before it.
func (a *API) uploadUsersHandler(role rbac.Role) http.HandlerFunc {
	parse := school.ParseStudentCSV
	if role == rbac.RoleTeacher {
		parse = school.ParseTeacherCSV
	}
	return func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "file required")
			return
		}
		defer f.Close()
		rows, err := parse(f)
		if err != nil {
			badRequest(w, "bad csv: "+err.Error())
			return
		}
		saved, err := a.School.BulkCreate(r.Context(), rows, role)
		if err != nil {
			message(w, http.StatusInternalServerError,
				fmt.Sprintf("%d accounts saved before failure: %v", saved, err))
			return
		}
		message(w, http.StatusOK, fmt.Sprintf("%d accounts saved", saved))
	}
}

func (a *API) updateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req school.UserUpdate
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		u, err := a.School.UpdateUser(r.Context(), chi.URLParam(r, "id"), req)
		if err == school.ErrNotFound {
			notFound(w)
			return
		}
		if err == school.ErrExists {
			badRequest(w, "username already taken")
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "account updated", "user": u})
	}
}

func (a *API) updateRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role rbac.Role `json:"role"`
		}
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, "valid role required")
			return
		}
		err := a.School.Users().UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role)
		if err == school.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "role updated")
	}
}

func (a *API) listUsersHandler(role rbac.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := a.School.Users().ListByRole(r.Context(), role)
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(users), "teachers": users})
	}
}

func (a *API) listStudentsPublicHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := a.School.Users().ListByRole(r.Context(), rbac.RoleStudent)
		if err != nil {
			serverError(w, err)
			return
		}
		out := make([]school.Public, 0, len(users))
		for _, u := range users {
			out = append(out, u.Public())
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(out), "students": out})
	}
}

func (a *API) deleteStudentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.School.DeleteStudent(r.Context(), chi.URLParam(r, "id"))
		if err == school.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "student deleted")
	}
}

func (a *API) deleteAllStudentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := a.School.DeleteAllStudents(r.Context())
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, fmt.Sprintf("%d students deleted", n))
	}
}

func (a *API) deleteAllTeachersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := a.School.DeleteAllTeachers(r.Context())
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, fmt.Sprintf("%d teachers deleted", n))
	}
}

func (a *API) deleteTeacherHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.School.DeleteTeacher(r.Context(), chi.URLParam(r, "id"))
		if err == school.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "teacher deleted")
	}
}
