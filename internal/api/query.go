// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/alvinbaena/pwned-check/pkg/hibp"
	"github.com/alvinbaena/pwned-check/pkg/strength"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Checker is the breach lookup behind the API, usually a *hibp.Client.
type Checker interface {
	Check(ctx context.Context, password string) (uint64, error)
	CheckDigest(ctx context.Context, digest hibp.Digest) (uint64, error)
}

type queryApi struct {
	checker Checker
}

func (q *queryApi) checkPassword(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := q.checker.Check(c.Request.Context(), req.Password)
	if err != nil {
		lookupError(c, err)
		return
	}

	report := strength.Estimate(req.Password, req.UserInputs)
	c.JSON(http.StatusOK, queryResponse{
		Pwned:    count > 0,
		Count:    count,
		Strength: &report,
	})
}

func (q *queryApi) checkHash(c *gin.Context) {
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	digest, err := hibp.ParseDigest(req.Hash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := q.checker.CheckDigest(c.Request.Context(), digest)
	if err != nil {
		lookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, queryResponse{Pwned: count > 0, Count: count})
}

func (q *queryApi) strength(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, strength.Estimate(req.Password, req.UserInputs))
}

// lookupError answers with the status that best describes a failed range lookup.
func lookupError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var ne *hibp.NetworkError
	var se *hibp.StatusError
	var pe *hibp.ParseError
	switch {
	case errors.As(err, &ne):
		if ne.Timeout() {
			status = http.StatusGatewayTimeout
		} else {
			status = http.StatusBadGateway
		}
	case errors.As(err, &se), errors.As(err, &pe):
		status = http.StatusBadGateway
	}

	log.Error().Err(err).Msg("error checking password")
	c.JSON(status, gin.H{"error": err.Error()})
}

// RegisterQueryApi adds the check routes to the group.
func RegisterQueryApi(group *gin.RouterGroup, checker Checker) {
	q := &queryApi{checker: checker}

	group.POST("/check/password", q.checkPassword)
	group.POST("/check/hash", q.checkHash)
	group.POST("/strength", q.strength)
}
