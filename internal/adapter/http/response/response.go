package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	EmailSent  *bool  `json:"emailSent,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func Data(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func Page(w http.ResponseWriter, data, pagination any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: pagination})
}

func Message(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

func OTPSent(w http.ResponseWriter) {
	sent := true
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Message:   "OTP sent to your email. Please verify to complete registration.",
		EmailSent: &sent,
	})
}

// Fail writes err using the status and message from StatusFor.
func Fail(w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func Error(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg)
}
