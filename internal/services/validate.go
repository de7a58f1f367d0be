package services

import (
	"errors"
	"net/http"

	"github.com/jellyjae/cliftonstrengths/internal/data/db"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/deviceid"
)

var errInvalidDevice = errors.New("device id must be 1-128 characters of [A-Za-z0-9._-]")

func checkDevice(deviceID string) (string, error) {
	id, ok := deviceid.Normalize(deviceID)
	if !ok {
		return "", apierr.New(http.StatusBadRequest, "invalid_device_id", errInvalidDevice)
	}
	return id, nil
}

// checkDate returns date unchanged when valid, today when empty.
func checkDate(date string, clock Clock) (string, error) {
	if date == "" {
		return clock.today(), nil
	}
	if _, err := selection.ParseDate(date); err != nil {
		return "", apierr.New(http.StatusBadRequest, "invalid_date", err)
	}
	return date, nil
}

// storeError maps a repo error to 503 when the store could not be reached and
// to 500 otherwise.
func storeError(code string, err error) error {
	if db.IsUnavailable(err) {
		return apierr.Unavailable(code, err)
	}
	return apierr.New(http.StatusInternalServerError, code, err)
}

// markUnavailable tags connectivity errors for the selection engine.
func markUnavailable(err error) error {
	if err != nil && db.IsUnavailable(err) {
		return errors.Join(selection.ErrStoreUnavailable, err)
	}
	return err
}
