package config

import "errors"

var errMissingSecrets = errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required in production")
