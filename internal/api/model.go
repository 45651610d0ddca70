// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/alvinbaena/pwned-check/pkg/strength"
)

type queryRequest struct {
	Password   string   `json:"password" binding:"required"`
	UserInputs []string `json:"userInputs"`
}

type queryResponse struct {
	Pwned    bool             `json:"pwned"`
	Count    uint64           `json:"count"`
	Strength *strength.Report `json:"strength,omitempty"`
}

type hashRequest struct {
	Hash string `json:"hash" binding:"required"`
}
