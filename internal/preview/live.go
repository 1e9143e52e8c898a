package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// ReloadPath is the WebSocket endpoint browsers connect to for reloads.
const ReloadPath = "/__badgesort/ws"

const reloadMessage = "reload"

const liveReloadScript = `<script>
(function() {
  var url = "ws://" + location.host + "` + ReloadPath + `";
  function connect() {
    var ws = new WebSocket(url);
    ws.onmessage = function(e) {
      if (e.data === "` + reloadMessage + `") {
        location.reload();
      }
    };
    ws.onclose = function() {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>
`

// InjectLiveReload inserts the reload script before </body>, or appends it
// when the page has no closing body tag.
func InjectLiveReload(page []byte) []byte {
	idx := bytes.LastIndex(page, []byte("</body>"))
	if idx == -1 {
		return append(page[:len(page):len(page)], liveReloadScript...)
	}
	out := make([]byte, 0, len(page)+len(liveReloadScript))
	out = append(out, page[:idx]...)
	out = append(out, liveReloadScript...)
	out = append(out, page[idx:]...)
	return out
}

// LiveServer serves the most recent preview page over HTTP and tells
// connected browsers to reload whenever the page is replaced.
type LiveServer struct {
	hub *Hub

	mu   sync.RWMutex
	page []byte
}

// NewLiveServer creates a LiveServer with no page yet.
func NewLiveServer() *LiveServer {
	return &LiveServer{hub: NewHub()}
}

// Update replaces the served page and notifies connected browsers.
func (s *LiveServer) Update(page []byte) {
	s.mu.Lock()
	s.page = InjectLiveReload(page)
	s.mu.Unlock()
	s.hub.Broadcast([]byte(reloadMessage))
}

// Handler returns the HTTP routes of the preview server.
func (s *LiveServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ReloadPath, s.hub.HandleWS)
	mux.HandleFunc("/", s.handlePage)
	return mux
}

func (s *LiveServer) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()
	if page == nil {
		http.Error(w, "preview not rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	_, _ = w.Write(page)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *LiveServer) Serve(ctx context.Context, ln net.Listener) error {
	go s.hub.Run()
	defer s.hub.Stop()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server: %w", err)
	}
	return nil
}
