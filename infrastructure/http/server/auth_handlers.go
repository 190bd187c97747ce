package server

import "net/http"

type registerPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPayload struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerPayload
	if !s.readJSON(w, r, &req) {
		return
	}
	if err := s.auth.Register(req.Username, req.Email, req.Password); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusCreated, nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginPayload
	if !s.readJSON(w, r, &req) {
		return
	}
	token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, tokenPayload{Token: string(token)})
}
