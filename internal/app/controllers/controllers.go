package controllers

import (
	"fmt"

	"github.com/yigit/studentperf/internal/pkg/apperrors"
)

// errUnauthenticated is reported when a handler runs without the session middleware
var errUnauthenticated = fmt.Errorf("%w: no session attached to request", apperrors.ErrUnauthorized)
