package render

import (
	"encoding/json"
	"net/http"

	"tandem/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		logrus.Errorln(err)
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.Errorln(err)
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	if err := enc.Encode(H{"code": errCode, "msg": err.Error()}); err != nil {
		logrus.Errorln(err)
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, -1, err)
}

// Code renders a ledger error with its code and a matching http status
func Code(w http.ResponseWriter, err error) {
	code, ok := err.(core.ErrorCode)
	if !ok {
		Error(w, http.StatusInternalServerError, int(core.ErrUnknown), err)
		return
	}

	status := http.StatusBadRequest
	switch code {
	case core.ErrOperationForbidden:
		status = http.StatusForbidden
	case core.ErrLoanNotFound:
		status = http.StatusNotFound
	case core.ErrPaused, core.ErrReentrantCall:
		status = http.StatusConflict
	}

	Error(w, status, int(code), err)
}
