package api

import (
	"fmt"
	"net/http"
	"strconv"

	"gointegral/domain/catalog"
	"gointegral/domain/core"
	"gointegral/domain/quadrature"
	"gointegral/internal/errors"

	"github.com/gin-gonic/gin"
)

// CompareRequest is the body of POST /api/compare; omitted fields take the
// server scenario defaults.
type CompareRequest struct {
	Function string   `json:"function" binding:"required"`
	A        *float64 `json:"a"`
	B        *float64 `json:"b"`
	N        *int     `json:"n"`
}

type functionView struct {
	Name       string   `json:"name"`
	Expression string   `json:"expression"`
	Exact      *float64 `json:"exact,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleFunctions(c *gin.Context) {
	fns := catalog.Build(s.scenario.A, s.scenario.B)
	views := make([]functionView, len(fns))
	for i, sf := range fns {
		views[i] = functionView{Name: sf.Name, Expression: sf.Expression, Exact: sf.ExactValue()}
	}
	c.JSON(http.StatusOK, gin.H{
		"scenario":  s.scenario,
		"functions": views,
		"methods":   quadrature.MethodOrder,
	})
}

func (s *Server) handleCompareQuery(c *gin.Context) {
	params := s.scenario

	var err error
	if v := c.Query("a"); v != "" {
		if params.A, err = strconv.ParseFloat(v, 64); err != nil {
			s.writeError(c, errors.InvalidInput("a must be a number"))
			return
		}
	}
	if v := c.Query("b"); v != "" {
		if params.B, err = strconv.ParseFloat(v, 64); err != nil {
			s.writeError(c, errors.InvalidInput("b must be a number"))
			return
		}
	}
	if v := c.Query("n"); v != "" {
		if params.N, err = strconv.Atoi(v); err != nil {
			s.writeError(c, errors.InvalidInput("n must be an integer"))
			return
		}
	}

	s.compare(c, c.Param("function"), params)
}

func (s *Server) handleCompareBody(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	params := s.scenario
	if req.A != nil {
		params.A = *req.A
	}
	if req.B != nil {
		params.B = *req.B
	}
	if req.N != nil {
		params.N = *req.N
	}

	s.compare(c, req.Function, params)
}

// compare runs one catalog function; the exact values are rebuilt for the
// requested interval.
func (s *Server) compare(c *gin.Context, function string, params catalog.Scenario) {
	if params.N > s.maxN {
		s.writeError(c, errors.InvalidInput(fmt.Sprintf("n must not exceed %d", s.maxN)))
		return
	}

	sf, err := catalog.Lookup(catalog.Build(params.A, params.B), function)
	if err != nil {
		s.writeError(c, err)
		return
	}

	run, err := s.service.CompareFunction(c.Request.Context(), sf, params.A, params.B, params.N)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if s.runs != nil {
		if err := s.runs.Render(c.Request.Context(), run); err != nil {
			s.writeError(c, errors.DatabaseError("failed to store run", err))
			return
		}
	}

	c.JSON(http.StatusOK, run)
}

func (s *Server) handleGetRun(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		s.writeError(c, errors.InvalidInput(err.Error()))
		return
	}

	run, err := s.runs.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			s.writeError(c, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	runs, err := s.runs.List(c.Request.Context(), c.Query("function"), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// writeError maps error codes to HTTP statuses
func (s *Server) writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError

	switch {
	case core.IsNotFoundError(err) || code == errors.CodeNotFound:
		status, code = http.StatusNotFound, errors.CodeNotFound
	case code == errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case core.IsComputationError(err) || code == errors.CodeComputationFailed:
		status, code = http.StatusUnprocessableEntity, errors.CodeComputationFailed
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request %s failed: %v", c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"code": code, "error": err.Error()})
}
