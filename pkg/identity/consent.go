package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mattismoel/canvascal/util"
)

// The implicit grant returns the token in the URL fragment, which never
// reaches the server. The callback page forwards the fragment to the relay
// path as a query string.
const relayPage = `<!doctype html>
<html>
<head><title>canvascal</title></head>
<body>
<p id="msg">Completing sign in...</p>
<script>
  var params = window.location.hash ? window.location.hash.substring(1) : window.location.search.substring(1);
  fetch(window.location.pathname.replace(/\/$/, "") + "/relay?" + params).then(function () {
    document.getElementById("msg").innerText = "You can close this window and return to canvascal.";
  });
</script>
</body>
</html>
`

// BrowserConsenter opens the authorization URL in the system browser and
// waits for the provider to redirect back to a loopback listener.
type BrowserConsenter struct {
	RedirectURL string
	Open        func(url string) error
	Out         io.Writer
	Logger      *zap.Logger
}

func (b *BrowserConsenter) Consent(ctx context.Context, authURL string) (url.Values, error) {
	redirect, err := url.Parse(b.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse redirect URL: %w", err)
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("could not listen for the authorization redirect: %w", err)
	}

	results := make(chan url.Values, 1)
	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, relayPage)
	})
	mux.HandleFunc(joinPath(callbackPath, "relay"), func(w http.ResponseWriter, r *http.Request) {
		select {
		case results <- r.URL.Query():
		default:
		}
		w.WriteHeader(http.StatusNoContent)
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("authorization redirect listener stopped", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	open := b.Open
	if open == nil {
		open = util.OpenBrowser
	}
	if err := open(authURL); err != nil {
		out := b.Out
		if out == nil {
			out = os.Stderr
		}
		logger.Warn("could not open browser", zap.Error(err))
		_, _ = fmt.Fprintf(out, "Open the following link in your browser to sign in with Google:\n%s\n", authURL)
	}

	select {
	case values := <-results:
		return values, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func joinPath(base, elem string) string {
	if base == "/" {
		return "/" + elem
	}
	return base + "/" + elem
}
