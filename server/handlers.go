package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/hupe1980/primego"
	"github.com/klauspost/cpuid/v2"
)

const msgInvalidBounds = "Limit must be non-negative and threads must be >= 1"

func (s *Server) handlePrimes(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}

	if !s.svc.AllowRequest() {
		s.writeError(w, r, http.StatusTooManyRequests, "Request rate exceeded, retry later")
		return
	}

	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"), "limit", nil)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	defaultThreads := 1
	threads, err := intParam(q.Get("threads"), "threads", &defaultThreads)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	useCache := true
	if v := q.Get("cache"); v != "" {
		if useCache, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid value for parameter 'cache': %q", v))
			return
		}
	}

	algo := q.Get("algorithm")
	if algo == "" {
		algo = "trial"
	}

	logger := s.opts.logger.WithAlgorithm(algo).WithLimit(limit)
	logger.InfoContext(r.Context(), "primes requested", "threads", threads)

	if limit < 0 || threads < 1 {
		s.writeError(w, r, http.StatusBadRequest, msgInvalidBounds)
		return
	}

	res, err := s.svc.Generate(r.Context(), primego.Request{
		Algorithm: algo,
		Limit:     limit,
		Threads:   threads,
		UseCache:  useCache,
	})
	if err != nil {
		s.writeGenerateError(w, r, logger, err)
		return
	}

	s.writeJSON(w, http.StatusOK, Envelope{
		HTTPStatus: http.StatusOK,
		Data:       newPrimePayload(res),
		Timestamp:  timestamp(s.opts.now()),
	})
}

func (s *Server) writeGenerateError(w http.ResponseWriter, r *http.Request, logger *primego.Logger, err error) {
	var unsupported *primego.ErrUnsupported

	switch {
	case errors.As(err, &unsupported):
		s.writeError(w, r, http.StatusBadRequest, unsupported.Error())
	case errors.Is(err, primego.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, r, http.StatusServiceUnavailable, err.Error())
	default:
		logger.ErrorContext(r.Context(), "generate failed", "path", r.URL.Path, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}

	guard := s.svc.Guard()
	s.writeJSON(w, http.StatusOK, InfoPayload{
		Algorithms: s.svc.Algorithms(),
		MaxLimit:   guard.MaxLimit,
		MaxThreads: guard.MaxThreads,
		CPU: CPUInfo{
			Brand:         cpuid.CPU.BrandName,
			PhysicalCores: cpuid.CPU.PhysicalCores,
			LogicalCores:  cpuid.CPU.LogicalCores,
		},
		Stats:     newStatsInfo(s.svc.Stats()),
		Timestamp: timestamp(s.opts.now()),
	})
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}

	s.writeJSON(w, http.StatusOK, RequestsPayload{
		Requests:  s.svc.RecentRequests(),
		Timestamp: timestamp(s.opts.now()),
	})
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodDelete) {
		return
	}

	s.svc.ClearCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, r, http.StatusNotFound, fmt.Sprintf("No handler found for %s %s", r.Method, r.URL.Path))
		return
	}
	if !s.allow(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	http.Redirect(w, r, "/api/info", http.StatusFound)
}

// allow writes a 405 envelope and reports false unless r.Method is one of
// methods.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if slices.Contains(methods, r.Method) {
		return true
	}

	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	s.writeError(w, r, http.StatusMethodNotAllowed,
		fmt.Sprintf("Request method '%s' is not supported", r.Method))

	return false
}

func (s *Server) methods(h http.Handler, methods ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.allow(w, r, methods...) {
			h.ServeHTTP(w, r)
		}
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.opts.logger.ErrorContext(r.Context(), "handler panic", "path", r.URL.Path, "panic", rec)
				s.writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("%v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, status, Envelope{
		HTTPStatus: status,
		Error:      newErrorPayload(status, message, r.URL.Path),
		Timestamp:  timestamp(s.opts.now()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := s.opts.codec.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// paramError is a client-facing message about a bad query parameter.
type paramError string

func (e paramError) Error() string { return string(e) }

// intParam parses an integer query parameter. When def is nil the parameter
// is required; otherwise an empty value yields *def.
func intParam(raw, name string, def *int) (int, error) {
	if raw == "" {
		if def != nil {
			return *def, nil
		}
		return 0, paramError(fmt.Sprintf("Required request parameter '%s' is not present", name))
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramError(fmt.Sprintf("Invalid value for parameter '%s': %q is not an integer", name, raw))
	}

	return v, nil
}
