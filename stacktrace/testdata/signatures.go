package fixtures

import "context"

type Server struct{}

func Handle(w int, _ string, r int) {}

func (s *Server) Serve(ctx context.Context, req int) error {
	return nil
}

func Variadic(format string, args ...interface{}) {}

func Unnamed(int, string) {}
