// SPDX-License-Identifier: Apache-2.0

package domain

import "errors"

var ErrProposalNotFound = errors.New("proposal not found")
var ErrUnknownTool = errors.New("unknown tool")
var ErrInvalidToolArgs = errors.New("invalid tool arguments")
var ErrDrafterUnavailable = errors.New("drafter unavailable")
