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

// Package fakeplatform is an in-process stand-in for the platform API. It
// keeps workspaces, scripts, flows, schedules and job history in memory so
// suites can exercise the whole client lifecycle without a real deployment.
//
// Runnables are not interpreted. A run returns the value of its sole
// argument, or the whole argument object otherwise, which is what the
// identity scripts used by the suites compute.
package fakeplatform

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	DefaultEmail    = "admin@windmill.dev"
	DefaultPassword = "changeme"
	DefaultUsername = "admin"
	DefaultVersion  = "CE v1.0.0-fake"
)

type account struct {
	password string
	username string
}

type script struct {
	hash     string
	content  string
	language string
}

type workspace struct {
	id        string
	name      string
	owner     string
	scripts   map[string]*script
	flows     map[string]map[string]interface{}
	schedules map[string]map[string]interface{}
	jobs      []map[string]interface{}
}

func newWorkspace(id, name, owner string) *workspace {
	return &workspace{
		id:        id,
		name:      name,
		owner:     owner,
		scripts:   map[string]*script{},
		flows:     map[string]map[string]interface{}{},
		schedules: map[string]map[string]interface{}{},
	}
}

// Server is a running fake platform.
type Server struct {
	server *httptest.Server

	lock sync.Mutex

	accounts           map[string]account
	sessions           map[string]string
	workspaces         map[string]*workspace
	workspaceCreations int
	version            string
}

// Option customizes a new Server.
type Option func(*Server)

// WithAccount adds a login identity.
func WithAccount(email, password, username string) Option {
	return func(s *Server) {
		s.accounts[email] = account{password: password, username: username}
	}
}

// WithWorkspace makes a workspace exist before any client connects.
func WithWorkspace(id string) Option {
	return func(s *Server) {
		s.workspaces[id] = newWorkspace(id, id, DefaultUsername)
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New starts a fake platform that accepts the default administrative login.
func New(options ...Option) *Server {
	s := &Server{
		accounts: map[string]account{
			DefaultEmail: {password: DefaultPassword, username: DefaultUsername},
		},
		sessions:   map[string]string{},
		workspaces: map[string]*workspace{},
		version:    DefaultVersion,
	}

	for _, o := range options {
		o(s)
	}

	s.server = httptest.NewServer(s.routes())

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/auth/login", s.login)
	r.Get("/api/version", s.getVersion)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/api/auth/logout", s.logout)
		r.Post("/api/workspaces/exists", s.workspaceExists)
		r.Post("/api/workspaces/create", s.createWorkspace)

		r.Route("/api/w/{workspace}", func(r chi.Router) {
			r.Use(s.workspaceScope)

			r.Post("/jobs/run_wait_result/{kind}/*", s.runWaitResult)
			r.Get("/jobs/list", s.listJobs)
			r.Post("/scripts/create", s.createScript)
			r.Post("/scripts/delete/p/*", s.deleteScript)
			r.Post("/flows/create", s.createFlow)
			r.Delete("/flows/delete/*", s.deleteFlow)
			r.Post("/schedules/create", s.createSchedule)
			r.Delete("/schedules/delete/*", s.deleteSchedule)
		})
	})

	return r
}

// URL is the base URL clients should be configured with.
func (s *Server) URL() string {
	return s.server.URL
}

func (s *Server) Close() {
	s.server.Close()
}

// WorkspaceCreations counts successful workspace creations.
func (s *Server) WorkspaceCreations() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.workspaceCreations
}

// ActiveSessions counts tokens that have not been logged out or expired.
func (s *Server) ActiveSessions() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.sessions)
}

// ExpireSessions invalidates every issued token, as a server restart with
// a new secret would.
func (s *Server) ExpireSessions() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.sessions = map[string]string{}
}

// Flow returns the stored definition of a flow.
func (s *Server) Flow(workspaceID, path string) (map[string]interface{}, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	w, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, false
	}

	flow, ok := w.flows[path]

	return flow, ok
}

// Schedule returns the stored body of a schedule.
func (s *Server) Schedule(workspaceID, path string) (map[string]interface{}, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	w, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, false
	}

	schedule, ok := w.schedules[path]

	return schedule, ok
}

// TriggerSchedules runs every enabled schedule once, recording a job for
// each, in place of a real scheduler ticking.
func (s *Server) TriggerSchedules() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	triggered := 0

	for _, w := range s.workspaces {
		for _, schedule := range w.schedules {
			if enabled, _ := schedule["enabled"].(bool); !enabled {
				continue
			}

			target, _ := schedule["script_path"].(string)
			isFlow, _ := schedule["is_flow"].(bool)
			args, _ := schedule["args"].(map[string]interface{})

			w.recordJob(target, isFlow, args)

			triggered++
		}
	}

	return triggered
}
