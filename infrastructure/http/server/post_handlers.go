package server

import (
	"net/http"

	"feed-lab/auth"

	"github.com/gorilla/mux"
)

type createPostPayload struct {
	Text string `json:"text"`
}

type commentPayload struct {
	Text string `json:"text"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostPayload
	if !s.readJSON(w, r, &req) {
		return
	}
	post, err := s.posts.CreatePost(auth.UserID(r.Context()), req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.monitor.IncPostCreated()
	s.writeSuccess(w, http.StatusCreated, post)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListPosts()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, posts)
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetPost(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.DeletePost(mux.Vars(r)["id"], auth.UserID(r.Context())); err != nil {
		s.writeError(w, err)
		return
	}
	s.monitor.IncPostDeleted()
	s.writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	likes, err := s.posts.Like(mux.Vars(r)["id"], auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.monitor.IncLike()
	s.writeSuccess(w, http.StatusOK, likes)
}

func (s *Server) handleUnlikePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Unlike(mux.Vars(r)["id"], auth.UserID(r.Context())); err != nil {
		s.writeError(w, err)
		return
	}
	s.monitor.IncUnlike()
	s.writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleCommentOnPost(w http.ResponseWriter, r *http.Request) {
	var req commentPayload
	if !s.readJSON(w, r, &req) {
		return
	}
	comments, err := s.posts.Comment(mux.Vars(r)["id"], auth.UserID(r.Context()), req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.monitor.IncComment()
	s.writeSuccess(w, http.StatusOK, comments)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.posts.DeleteComment(vars["id"], vars["comment_id"], auth.UserID(r.Context())); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, nil)
}
