package cli

import "errors"

var errPlanNotReady = errors.New("plan is not ready to deploy")
