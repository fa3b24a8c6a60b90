package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/burnoracle/app/health"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// serve opens the state, runs fn and writes its result or the mapped error
func (s *Server) serve(c *gin.Context, fn func(ctx context.Context, qs types.QueryServer) (any, error)) {
	ctx, qs, release, err := s.source()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "State unavailable",
			Code:    "UNAVAILABLE",
			Details: err.Error(),
		})
		return
	}
	defer release()

	res, err := fn(ctx, qs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeError(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: codes.Internal.String()})
		return
	}

	httpStatus := http.StatusInternalServerError
	switch st.Code() {
	case codes.NotFound:
		httpStatus = http.StatusNotFound
	case codes.InvalidArgument:
		httpStatus = http.StatusBadRequest
	}
	c.JSON(httpStatus, ErrorResponse{Error: st.Message(), Code: st.Code().String()})
}

func badRequest(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   msg,
		Code:    codes.InvalidArgument.String(),
		Details: err.Error(),
	})
}

func feedIDParam(c *gin.Context) (uint64, bool) {
	feedID, err := strconv.ParseUint(c.Param("feed_id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid feed id", err)
		return 0, false
	}
	return feedID, true
}

func windowIDParam(c *gin.Context) (int64, bool) {
	windowID, err := strconv.ParseInt(c.Param("window_id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid window id", err)
		return 0, false
	}
	return windowID, true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleHealthReady reports 503 only when the state cannot be read. A paused
// oracle is degraded but still serves queries.
func (s *Server) handleHealthReady(c *gin.Context) {
	check := s.health.Check(c.Request.Context(), false)
	code := http.StatusOK
	if check.Status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, check)
}

func (s *Server) handleHealthDetailed(c *gin.Context) {
	check := s.health.Check(c.Request.Context(), true)
	code := http.StatusOK
	if check.Status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, check)
}

func (s *Server) handleStatus(c *gin.Context) {
	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.ContractStatus(ctx, &types.QueryContractStatusRequest{})
	})
}

func (s *Server) handleFeed(c *gin.Context) {
	feedID, ok := feedIDParam(c)
	if !ok {
		return
	}
	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.FeedInfo(ctx, &types.QueryFeedInfoRequest{FeedId: feedID})
	})
}

func (s *Server) handlePrice(c *gin.Context) {
	feedID, ok := feedIDParam(c)
	if !ok {
		return
	}
	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.Price(ctx, &types.QueryPriceRequest{FeedId: feedID})
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	feedID, ok := feedIDParam(c)
	if !ok {
		return
	}

	page := &query.PageRequest{}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, "Invalid limit", err)
			return
		}
		page.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, "Invalid offset", err)
			return
		}
		page.Offset = offset
	}
	if v := c.Query("reverse"); v != "" {
		reverse, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "Invalid reverse flag", err)
			return
		}
		page.Reverse = reverse
	}

	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.ConsensusHistory(ctx, &types.QueryConsensusHistoryRequest{FeedId: feedID, Pagination: page})
	})
}

func (s *Server) handleConsensus(c *gin.Context) {
	feedID, ok := feedIDParam(c)
	if !ok {
		return
	}
	windowID, ok := windowIDParam(c)
	if !ok {
		return
	}
	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.ConsensusData(ctx, &types.QueryConsensusDataRequest{FeedId: feedID, WindowId: windowID})
	})
}

func (s *Server) handleSubmission(c *gin.Context) {
	feedID, ok := feedIDParam(c)
	if !ok {
		return
	}
	windowID, ok := windowIDParam(c)
	if !ok {
		return
	}
	reporter := c.Param("reporter")
	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.Submission(ctx, &types.QuerySubmissionRequest{FeedId: feedID, WindowId: windowID, Reporter: reporter})
	})
}

func (s *Server) handleReputation(c *gin.Context) {
	reporter := c.Param("reporter")
	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.OracleReputation(ctx, &types.QueryOracleReputationRequest{Reporter: reporter})
	})
}

func (s *Server) handleRequiredBurn(c *gin.Context) {
	reporter := c.Param("reporter")
	s.serve(c, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.RequiredBurn(ctx, &types.QueryRequiredBurnRequest{Reporter: reporter})
	})
}
