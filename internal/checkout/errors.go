package checkout

import "net/http"

// Result est l'enveloppe uniforme retournée par toutes les opérations du
// service : code HTTP, marqueur de succès, et payload ou détail d'erreur
type Result struct {
	Code    int    `json:"-"`
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(code int, payload any) Result {
	return Result{Code: code, Success: true, Payload: payload}
}

func fail(code int, msg string) Result {
	return Result{Code: code, Success: false, Error: msg}
}

// Taxonomie d'erreurs du workflow
func invalidInput(msg string) Result {
	return fail(http.StatusBadRequest, msg)
}

func unauthorized(msg string) Result {
	return fail(http.StatusUnauthorized, msg)
}

func notFound(msg string) Result {
	return fail(http.StatusNotFound, msg)
}

func conflict(msg string) Result {
	return fail(http.StatusConflict, msg)
}

func paymentDeclined(msg string) Result {
	return fail(http.StatusPaymentRequired, msg)
}

func gatewayError(msg string) Result {
	return fail(http.StatusBadGateway, msg)
}

func internalError(msg string) Result {
	return fail(http.StatusInternalServerError, msg)
}
