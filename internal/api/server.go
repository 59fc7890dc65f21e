package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adamanr/org_registry/internal/entity"
	"github.com/adamanr/org_registry/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const (
	typeSuccess = "success"
	typeError   = "error"
)

type Server struct {
	repos  *repository.Repositories
	logger *slog.Logger
}

func NewServer(repos *repository.Repositories, logger *slog.Logger) *Server {
	return &Server{repos: repos, logger: logger}
}

// Routes mounts the registry endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Health)

	r.Route("/departments", func(r chi.Router) {
		r.Get("/", s.GetDepartments)
		r.Get("/{deptCode}", s.GetDepartment)
		r.Put("/{deptCode}", s.SaveDepartment)
		r.Delete("/{deptCode}", s.DeleteDepartment)
	})

	r.Route("/positions", func(r chi.Router) {
		r.Get("/", s.GetPositions)
		r.Get("/{pstCode}", s.GetPosition)
		r.Put("/{pstCode}", s.SavePosition)
		r.Delete("/{pstCode}", s.DeletePosition)
	})

	r.Route("/dept-pos-rels", func(r chi.Router) {
		r.Get("/", s.GetDeptPosRels)
		r.Get("/{userPid}/{deptCode}", s.GetDeptPosRel)
		r.Put("/{userPid}/{deptCode}", s.SaveDeptPosRel)
		r.Delete("/{userPid}/{deptCode}", s.DeleteDeptPosRel)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.GetUsers)
		r.Get("/{userPid}", s.GetUser)
		r.Put("/{userPid}", s.SaveUser)
		r.Delete("/{userPid}", s.DeleteUser)
	})
}

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	s.httpResponse(w, http.StatusOK, map[string]string{"status": "ok"}, typeSuccess)
}

// GetDepartments get all departments.
func (s *Server) GetDepartments(w http.ResponseWriter, r *http.Request) {
	list[string, entity.Department](s, w, r, s.repos.Departments, "departments")
}

// GetDepartment get department by code.
func (s *Server) GetDepartment(w http.ResponseWriter, r *http.Request) {
	get[string, entity.Department](s, w, r, s.repos.Departments, chi.URLParam(r, "deptCode"))
}

// SaveDepartment insert or replace a department.
func (s *Server) SaveDepartment(w http.ResponseWriter, r *http.Request) {
	save[string, entity.Department](s, w, r, s.repos.Departments, chi.URLParam(r, "deptCode"), entity.Department.DeptCode)
}

func (s *Server) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	remove[string, entity.Department](s, w, r, s.repos.Departments, chi.URLParam(r, "deptCode"))
}

// GetPositions get all positions.
func (s *Server) GetPositions(w http.ResponseWriter, r *http.Request) {
	list[string, entity.Position](s, w, r, s.repos.Positions, "positions")
}

func (s *Server) GetPosition(w http.ResponseWriter, r *http.Request) {
	get[string, entity.Position](s, w, r, s.repos.Positions, chi.URLParam(r, "pstCode"))
}

func (s *Server) SavePosition(w http.ResponseWriter, r *http.Request) {
	save[string, entity.Position](s, w, r, s.repos.Positions, chi.URLParam(r, "pstCode"), entity.Position.PstCode)
}

func (s *Server) DeletePosition(w http.ResponseWriter, r *http.Request) {
	remove[string, entity.Position](s, w, r, s.repos.Positions, chi.URLParam(r, "pstCode"))
}

func (s *Server) GetDeptPosRels(w http.ResponseWriter, r *http.Request) {
	list[entity.DeptPosRelKey, entity.DeptPosRel](s, w, r, s.repos.DeptPosRels, "dept_pos_rels")
}

func (s *Server) GetDeptPosRel(w http.ResponseWriter, r *http.Request) {
	key, ok := s.deptPosRelKey(w, r)
	if !ok {
		return
	}
	get[entity.DeptPosRelKey, entity.DeptPosRel](s, w, r, s.repos.DeptPosRels, key)
}

// SaveDeptPosRel overwrites any earlier assignment of the user to the department.
func (s *Server) SaveDeptPosRel(w http.ResponseWriter, r *http.Request) {
	key, ok := s.deptPosRelKey(w, r)
	if !ok {
		return
	}
	save[entity.DeptPosRelKey, entity.DeptPosRel](s, w, r, s.repos.DeptPosRels, key, entity.DeptPosRel.Key)
}

func (s *Server) DeleteDeptPosRel(w http.ResponseWriter, r *http.Request) {
	key, ok := s.deptPosRelKey(w, r)
	if !ok {
		return
	}
	remove[entity.DeptPosRelKey, entity.DeptPosRel](s, w, r, s.repos.DeptPosRels, key)
}

func (s *Server) GetUsers(w http.ResponseWriter, r *http.Request) {
	list[int64, entity.User](s, w, r, s.repos.Users, "users")
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	pid, ok := s.userPid(w, r)
	if !ok {
		return
	}
	get[int64, entity.User](s, w, r, s.repos.Users, pid)
}

func (s *Server) SaveUser(w http.ResponseWriter, r *http.Request) {
	pid, ok := s.userPid(w, r)
	if !ok {
		return
	}
	save[int64, entity.User](s, w, r, s.repos.Users, pid, entity.User.UserPid)
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	pid, ok := s.userPid(w, r)
	if !ok {
		return
	}
	remove[int64, entity.User](s, w, r, s.repos.Users, pid)
}

func (s *Server) userPid(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var pid int64

	err := runtime.BindStyledParameterWithOptions("simple", "userPid", chi.URLParam(r, "userPid"), &pid,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.logger.Warn("Invalid userPid", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid format for parameter userPid", typeError)
		return 0, false
	}

	return pid, true
}

func (s *Server) deptPosRelKey(w http.ResponseWriter, r *http.Request) (entity.DeptPosRelKey, bool) {
	pid, ok := s.userPid(w, r)
	if !ok {
		return entity.DeptPosRelKey{}, false
	}

	return entity.NewDeptPosRelKey(pid, chi.URLParam(r, "deptCode")), true
}

func list[K comparable, E any](s *Server, w http.ResponseWriter, r *http.Request, repo repository.CRUD[K, E], name string) {
	records, err := repo.FindAll(r.Context())
	if err != nil {
		s.logger.Error("Error listing records", slog.String("resource", name), slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusInternalServerError, "Failed to get "+name, typeError)
		return
	}

	s.httpResponse(w, http.StatusOK, records, typeSuccess)
}

func get[K comparable, E any](s *Server, w http.ResponseWriter, r *http.Request, repo repository.CRUD[K, E], id K) {
	record, err := repo.FindByID(r.Context(), id)
	if err != nil {
		s.storageError(w, err, id)
		return
	}

	s.httpResponse(w, http.StatusOK, record, typeSuccess)
}

func save[K comparable, E any](s *Server, w http.ResponseWriter, r *http.Request, repo repository.CRUD[K, E], id K, keyOf func(E) K) {
	var record E
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		s.logger.Warn("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", typeError)
		return
	}

	if keyOf(record) != id {
		s.logger.Warn("Body key does not match path", slog.Any("path_id", id), slog.Any("body_id", keyOf(record)))
		s.httpResponse(w, http.StatusBadRequest, "Key in body does not match path", typeError)
		return
	}

	if err := repo.Save(r.Context(), record); err != nil {
		s.storageError(w, err, id)
		return
	}

	s.httpResponse(w, http.StatusOK, record, typeSuccess)
}

func remove[K comparable, E any](s *Server, w http.ResponseWriter, r *http.Request, repo repository.CRUD[K, E], id K) {
	if err := repo.DeleteByID(r.Context(), id); err != nil {
		s.storageError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storageError(w http.ResponseWriter, err error, id any) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.httpResponse(w, http.StatusNotFound, "Record not found", typeError)
	case errors.Is(err, repository.ErrEmptyKey):
		s.httpResponse(w, http.StatusBadRequest, err.Error(), typeError)
	default:
		s.logger.Error("Storage error", slog.Any("id", id), slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusInternalServerError, "Storage error", typeError)
	}
}

func (s *Server) httpResponse(w http.ResponseWriter, status int, data any, respType string) {
	resp := map[string]any{
		"status": status,
		"type":   respType,
		"data":   data,
	}

	respData, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		s.logger.Error("Error marshaling response", slog.String("error", marshalErr.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respData); err != nil {
		s.logger.Error("Error writing response", slog.String("error", err.Error()))
	}
}
