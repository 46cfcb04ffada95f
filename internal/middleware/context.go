package middleware

// ContextKeyRequestID stores the request identifier on the echo context.
const ContextKeyRequestID = "request_id"

// HeaderRequestID carries the request identifier between client and server.
const HeaderRequestID = "X-Request-ID"
