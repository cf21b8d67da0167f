package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnrecognizedResponse = errors.New("ui: unrecognized response payload")

type ResponseKind int

const (
	ResponseSurface ResponseKind = iota + 1
	ResponseAck
	ResponseExport
	ResponseError
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseSurface:
		return "surface"
	case ResponseAck:
		return "ack"
	case ResponseExport:
		return "export"
	case ResponseError:
		return "error"
	default:
		return "unknown"
	}
}

// AckPayload is the success acknowledgement returned by mutation endpoints.
type AckPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SavedAt string `json:"savedAt,omitempty"`
}

// ExportPayload is returned by approve. ExportData is kept raw so the
// client decides how to interpret it per format.
type ExportPayload struct {
	Success          bool            `json:"success"`
	ExportData       json.RawMessage `json:"exportData"`
	Format           string          `json:"format"`
	Message          string          `json:"message"`
	DownloadFileName string          `json:"downloadFileName"`
}

// ErrorPayload is the error envelope written by the gateway.
type ErrorPayload struct {
	Error string `json:"error"`
}

// Response is a server reply resolved into exactly one case.
type Response struct {
	Kind    ResponseKind
	Status  int
	Surface Surface
	Ack     AckPayload
	Export  ExportPayload
	Message string
}

type probe struct {
	Surface    json.RawMessage `json:"surface"`
	ExportData json.RawMessage `json:"exportData"`
	Success    *bool           `json:"success"`
	Message    string          `json:"message"`
	Error      json.RawMessage `json:"error"`
}

// DecodeResponse classifies a reply by status and payload shape.
func DecodeResponse(status int, raw []byte) (Response, error) {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		if status < 200 || status > 299 {
			return Response{Kind: ResponseError, Status: status, Message: statusMessage(status)}, nil
		}
		return Response{}, fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
	}

	if status < 200 || status > 299 {
		msg := errorMessage(p.Error)
		if msg == "" {
			msg = p.Message
		}
		if msg == "" {
			msg = statusMessage(status)
		}
		return Response{Kind: ResponseError, Status: status, Message: msg}, nil
	}

	switch {
	case present(p.Surface):
		var s Surface
		if err := json.Unmarshal(raw, &s); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
		}
		return Response{Kind: ResponseSurface, Status: status, Surface: s}, nil
	case present(p.ExportData):
		var e ExportPayload
		if err := json.Unmarshal(raw, &e); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
		}
		return Response{Kind: ResponseExport, Status: status, Export: e, Message: e.Message}, nil
	case p.Success != nil && *p.Success:
		var a AckPayload
		if err := json.Unmarshal(raw, &a); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
		}
		return Response{Kind: ResponseAck, Status: status, Ack: a, Message: a.Message}, nil
	case p.Success != nil:
		msg := p.Message
		if msg == "" {
			msg = errorMessage(p.Error)
		}
		return Response{Kind: ResponseError, Status: status, Message: msg}, nil
	case present(p.Error):
		return Response{Kind: ResponseError, Status: status, Message: errorMessage(p.Error)}, nil
	}
	return Response{}, ErrUnrecognizedResponse
}

func present(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

// errorMessage accepts "msg" or {"message": "msg"}.
func errorMessage(raw json.RawMessage) string {
	if !present(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Code
	}
	return strings.TrimSpace(string(raw))
}

func statusMessage(status int) string {
	if t := http.StatusText(status); t != "" {
		return t
	}
	return fmt.Sprintf("status %d", status)
}
