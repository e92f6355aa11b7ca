/*
Copyright 2026 the Windmill Harness Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fakeplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type contextKey int

const (
	usernameKey contextKey = iota
	workspaceKey
)

// writeText mirrors the platform, which answers with bare text bodies for
// tokens, acknowledgements and errors alike.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Internal: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, _ = w.Write(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeText(w, http.StatusBadRequest, "Bad request: "+err.Error())
		return false
	}

	return true
}

// runnablePath returns the wildcard part of the route, which holds a
// slash separated path. Routing matches on the escaped path when one is
// present, so the parameter is unescaped here.
func runnablePath(r *http.Request) string {
	path := chi.URLParam(r, "*")

	if unescaped, err := url.PathUnescape(path); err == nil {
		return unescaped
	}

	return path
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeText(w, http.StatusUnauthorized, "Unauthorized: missing bearer token")
			return
		}

		s.lock.Lock()
		email, ok := s.sessions[token]
		username := s.accounts[email].username
		s.lock.Unlock()

		if !ok {
			writeText(w, http.StatusUnauthorized, "Unauthorized: invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}

func (s *Server) workspaceScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "workspace")

		s.lock.Lock()
		ws, ok := s.workspaces[id]
		s.lock.Unlock()

		if !ok {
			writeText(w, http.StatusNotFound, fmt.Sprintf("Not found: workspace %s does not exist", id))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), workspaceKey, ws)))
	})
}

func workspaceFromContext(r *http.Request) *workspace {
	//nolint:forcetypeassert // set by workspaceScope
	return r.Context().Value(workspaceKey).(*workspace)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if !readJSON(w, r, &request) {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	account, ok := s.accounts[request.Email]
	if !ok || account.password != request.Password {
		writeText(w, http.StatusUnauthorized, "Invalid login")
		return
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.sessions[token] = request.Email

	writeText(w, http.StatusOK, token)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.lock.Lock()
	delete(s.sessions, token)
	s.lock.Unlock()

	writeText(w, http.StatusOK, "logged out")
}

func (s *Server) getVersion(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	version := s.version
	s.lock.Unlock()

	writeText(w, http.StatusOK, version)
}

func (s *Server) workspaceExists(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ID string `json:"id"`
	}

	if !readJSON(w, r, &request) {
		return
	}

	s.lock.Lock()
	_, ok := s.workspaces[request.ID]
	s.lock.Unlock()

	if ok {
		writeText(w, http.StatusOK, "true")
		return
	}

	writeText(w, http.StatusOK, "false")
}

func (s *Server) createWorkspace(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	}

	if !readJSON(w, r, &request) {
		return
	}

	if request.ID == "" {
		writeText(w, http.StatusBadRequest, "Bad request: workspace id is required")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.workspaces[request.ID]; ok {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("Bad request: workspace %s already exists", request.ID))
		return
	}

	owner := request.Username
	if owner == "" {
		owner, _ = r.Context().Value(usernameKey).(string)
	}

	s.workspaces[request.ID] = newWorkspace(request.ID, request.Name, owner)
	s.workspaceCreations++

	writeText(w, http.StatusOK, "Created workspace "+request.ID)
}

// echo is the fake job semantics, see the package documentation.
func echo(args map[string]interface{}) interface{} {
	if len(args) == 1 {
		for _, value := range args {
			return value
		}
	}

	return args
}

func (ws *workspace) recordJob(path string, isFlow bool, args map[string]interface{}) interface{} {
	kind := "script"
	if isFlow {
		kind = "flow"
	}

	result := echo(args)

	// Newest first, as the platform lists them.
	ws.jobs = append([]map[string]interface{}{
		{
			"id":           uuid.NewString(),
			"workspace_id": ws.id,
			"script_path":  path,
			"job_kind":     kind,
			"args":         args,
			"result":       result,
			"success":      true,
			"created_at":   time.Now().UTC().Format(time.RFC3339Nano),
		},
	}, ws.jobs...)

	return result
}

func (s *Server) runWaitResult(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)
	path := runnablePath(r)

	var args map[string]interface{}
	if !readJSON(w, r, &args) {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	switch chi.URLParam(r, "kind") {
	case "p":
		if _, ok := ws.scripts[path]; !ok {
			writeText(w, http.StatusNotFound, "Not found: script not found at name "+path)
			return
		}

		writeJSON(w, http.StatusOK, ws.recordJob(path, false, args))
	case "f":
		if _, ok := ws.flows[path]; !ok {
			writeText(w, http.StatusNotFound, "Not found: flow not found at path "+path)
			return
		}

		writeJSON(w, http.StatusOK, ws.recordJob(path, true, args))
	default:
		writeText(w, http.StatusBadRequest, "Bad request: unknown runnable kind")
	}
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)
	path := r.URL.Query().Get("script_path_exact")

	s.lock.Lock()
	defer s.lock.Unlock()

	jobs := []map[string]interface{}{}

	for _, job := range ws.jobs {
		if path == "" || job["script_path"] == path {
			jobs = append(jobs, job)
		}
	}

	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) createScript(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)

	var request struct {
		Path     string `json:"path"`
		Content  string `json:"content"`
		Language string `json:"language"`
	}

	if !readJSON(w, r, &request) {
		return
	}

	if request.Path == "" || request.Language == "" {
		writeText(w, http.StatusBadRequest, "Bad request: path and language are required")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := ws.scripts[request.Path]; ok {
		writeText(w, http.StatusBadRequest, "Bad request: path conflict for "+request.Path+" with non-archived hash")
		return
	}

	hash := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	ws.scripts[request.Path] = &script{
		hash:     hash,
		content:  request.Content,
		language: request.Language,
	}

	writeText(w, http.StatusCreated, hash)
}

func (s *Server) deleteScript(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)
	path := runnablePath(r)

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := ws.scripts[path]; !ok {
		writeText(w, http.StatusNotFound, "Not found: script not found at path "+path)
		return
	}

	delete(ws.scripts, path)

	writeText(w, http.StatusOK, path)
}

func (s *Server) createFlow(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)

	var flow map[string]interface{}
	if !readJSON(w, r, &flow) {
		return
	}

	path, _ := flow["path"].(string)
	if path == "" {
		writeText(w, http.StatusBadRequest, "Bad request: missing field `path`")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := ws.flows[path]; ok {
		writeText(w, http.StatusBadRequest, "Bad request: flow "+path+" already exists")
		return
	}

	ws.flows[path] = flow

	writeText(w, http.StatusCreated, path)
}

func (s *Server) deleteFlow(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)
	path := runnablePath(r)

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := ws.flows[path]; !ok {
		writeText(w, http.StatusNotFound, "Not found: flow not found at path "+path)
		return
	}

	delete(ws.flows, path)

	writeText(w, http.StatusOK, path)
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)

	var schedule map[string]interface{}
	if !readJSON(w, r, &schedule) {
		return
	}

	path, _ := schedule["path"].(string)
	target, _ := schedule["script_path"].(string)
	expression, _ := schedule["schedule"].(string)

	if path == "" || target == "" || expression == "" {
		writeText(w, http.StatusBadRequest, "Bad request: path, schedule and script_path are required")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := ws.schedules[path]; ok {
		writeText(w, http.StatusBadRequest, "Bad request: schedule "+path+" already exists")
		return
	}

	isFlow, _ := schedule["is_flow"].(bool)

	if _, ok := ws.scripts[target]; !ok && !isFlow {
		writeText(w, http.StatusNotFound, "Not found: script not found at name "+target)
		return
	}

	if _, ok := ws.flows[target]; !ok && isFlow {
		writeText(w, http.StatusNotFound, "Not found: flow not found at path "+target)
		return
	}

	ws.schedules[path] = schedule

	writeText(w, http.StatusCreated, path)
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r)
	path := runnablePath(r)

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := ws.schedules[path]; !ok {
		writeText(w, http.StatusNotFound, "Not found: schedule not found at path "+path)
		return
	}

	delete(ws.schedules, path)

	writeText(w, http.StatusOK, path)
}
