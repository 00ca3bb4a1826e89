package preview

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// ClientScriptPath is the route serving the reload client.
const ClientScriptPath = "/livereload.js"

// ClientScript reloads the page on every reload event and reconnects after errors.
const ClientScript = `(() => {
  if (window.__SITEPIPE_LR__) return;
  window.__SITEPIPE_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    es.addEventListener('reload', () => location.reload());
    es.onerror = () => { es.close(); setTimeout(connect, 1000); };
  }
  connect();
})();
`

var (
	scriptTag = []byte(`<script async src="` + ClientScriptPath + `"></script>`)
	bodyClose = []byte("</body>")
)

// maxInjectSize bounds how much of a page is buffered for injection.
const maxInjectSize = 4 << 20

// injectScript buffers HTML responses and inserts the reload client before </body>.
func injectScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if r.Method != http.MethodGet || !(p == "" || strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".html")) {
			next.ServeHTTP(w, r)
			return
		}

		iw := &injector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(iw, r)
		iw.finalize()
	})
}

type injector struct {
	http.ResponseWriter
	status      int
	buf         bytes.Buffer
	passthrough bool
	wroteHeader bool
}

func (i *injector) WriteHeader(code int) {
	i.status = code
	if i.passthrough {
		i.ResponseWriter.WriteHeader(code)
		i.wroteHeader = true
	}
}

func (i *injector) Write(data []byte) (int, error) {
	if !i.passthrough && i.buf.Len() == 0 {
		ct := i.Header().Get("Content-Type")
		if (ct != "" && !strings.Contains(ct, "text/html")) || i.status != http.StatusOK {
			i.startPassthrough()
		}
	}
	if i.passthrough {
		return i.ResponseWriter.Write(data)
	}

	if i.buf.Len()+len(data) > maxInjectSize {
		i.startPassthrough()
		if _, err := i.ResponseWriter.Write(i.buf.Bytes()); err != nil {
			return 0, err
		}
		i.buf.Reset()
		return i.ResponseWriter.Write(data)
	}
	return i.buf.Write(data)
}

func (i *injector) startPassthrough() {
	i.passthrough = true
	if !i.wroteHeader {
		i.ResponseWriter.WriteHeader(i.status)
		i.wroteHeader = true
	}
}

func (i *injector) finalize() {
	if i.passthrough {
		return
	}
	if i.status != http.StatusOK || i.buf.Len() == 0 {
		i.ResponseWriter.WriteHeader(i.status)
		_, _ = i.ResponseWriter.Write(i.buf.Bytes())
		return
	}

	body := Inject(i.buf.Bytes())
	i.Header().Set("Content-Length", strconv.Itoa(len(body)))
	i.ResponseWriter.WriteHeader(i.status)
	_, _ = i.ResponseWriter.Write(body)
}

// Inject inserts the reload client before the last </body>, or appends it
// when the page has no body end tag.
func Inject(html []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(html), bodyClose)
	if idx < 0 {
		return append(append([]byte(nil), html...), scriptTag...)
	}
	out := make([]byte, 0, len(html)+len(scriptTag))
	out = append(out, html[:idx]...)
	out = append(out, scriptTag...)
	return append(out, html[idx:]...)
}
