package middleware

import (
	"net/http"

	"github.com/tupleap/authgate/internal/httputil"
)

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}
