package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
)

var (
	// ErrNotInGroup means no clan tag was given and the player could not be tied to one.
	ErrNotInGroup = errors.New("player is not in a known clan")

	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrClanNotFound        = errors.New("clan not found")
	ErrNoActiveWar         = errors.New("clan has no war in preparation or battle day")
)

// upstreamError classifies a RosterSource failure.
func upstreamError(op string, err error) error {
	if api.StatusCode(err) == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %w", op, ErrClanNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}
