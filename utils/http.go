// utils/http.go
package utils

import (
	"net/http"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 15 * time.Second, // outbound notification calls are best-effort
}
