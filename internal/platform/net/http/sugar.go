package http

import (
	"net/http"

	"compsync/internal/platform/net/http/bind"
)

// JSONHandler binds and validates a T body, then wraps fn's result in an envelope
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

// NoBodyHandler wraps fn's result in an envelope without reading a body
func NoBodyHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

// GetJSON mounts fn for GET
func GetJSON(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, NoBodyHandler(fn))
}

// DeleteJSON mounts fn for DELETE
func DeleteJSON(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Delete(path, NoBodyHandler(fn))
}

// PutJSON mounts fn for PUT with a bound T body
func PutJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Put(path, JSONHandler(fn))
}

// PostJSON mounts fn for POST with a bound T body
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(fn))
}
