package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qr-forever/resolver/logging"
	"github.com/qr-forever/resolver/resolver"
)

const htmlContentType = "text/html; charset=utf-8"

//verification page shown on public resolution: renders the on-chain
//record and optionally auto-redirects to the destination
const verificationPageTemplate = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>QR Verification #{{.RecordID}}</title>
    <style>
      body { font-family: ui-sans-serif, system-ui, sans-serif; background:#f8fafc; color:#0f172a; margin:0; padding:20px; }
      .card { max-width:680px; margin:0 auto; background:white; border:1px solid #e2e8f0; border-radius:14px; padding:20px; }
      .tag { display:inline-block; padding:4px 8px; border-radius:999px; background:#dcfce7; color:#166534; font-size:12px; font-weight:700; }
      .line { margin:10px 0; word-break: break-all; }
      button, a.btn { display:inline-block; margin-top:12px; background:#0f6b4a; color:white; border:0; border-radius:8px; padding:10px 14px; text-decoration:none; cursor:pointer; }
      #cancel { background:#334155; margin-left:8px; }
      .muted { color:#475569; font-size: 13px; }
    </style>
  </head>
  <body>
    <div class="card">
      <div class="tag">Verified on-chain</div>
      <h1>QR #{{.RecordID}}</h1>
      <div class="line"><strong>Type:</strong> {{.TargetType}}</div>
      <div class="line"><strong>Destination:</strong> {{.Target}}</div>
      <div class="line"><strong>Last update tx:</strong> {{if .TxHash}}{{.TxHash}}{{else}}n/a{{end}}</div>
      <a class="btn" href="{{.Destination}}">Open destination</a>
      {{if .AutoRedirect}}<button id="cancel">Cancel auto-redirect</button><p id="status" class="muted">Auto-redirecting in 1.5 seconds...</p>{{end}}
      <p class="muted">Resolver verifies the on-chain record before redirecting.</p>
    </div>
    {{if .AutoRedirect}}<script>
      let canceled = false;
      const btn = document.getElementById('cancel');
      btn?.addEventListener('click', () => { canceled = true; document.getElementById('status').innerText = 'Redirect canceled'; });
      setTimeout(() => { if (!canceled) window.location.href = {{.DestinationValue}}; }, 1500);
    </script>{{end}}
  </body>
</html>`

type verificationPage struct {
	RecordID   string
	TargetType string
	Target     string
	TxHash     string
	//Destination passed the type grammar; template.URL lets the
	//ipfs:// and ar:// schemes through the href sanitizer
	Destination      template.URL
	DestinationValue string
	AutoRedirect     bool
}

//PageHandler serves the public html verification page
type PageHandler struct {
	resolverService *resolver.Resolver
	page            *template.Template
}

func NewPageHandler(resolverService *resolver.Resolver) *PageHandler {
	return &PageHandler{
		resolverService: resolverService,
		page:            template.Must(template.New("verification").Parse(verificationPageTemplate)),
	}
}

func (ph *PageHandler) Handler(c *gin.Context) {
	recordID := c.Param("id")

	record, err := ph.resolverService.Resolve(c.Request.Context(), recordID)
	if err != nil {
		status, message := resolveErrorStatus(err)
		c.String(status, message)
		return
	}

	autoRedirect := c.Query("redirect") != "0"

	c.Header("Content-Type", htmlContentType)
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	if err := ph.page.Execute(c.Writer, &verificationPage{
		RecordID:         record.RecordID,
		TargetType:       string(record.TargetType),
		Target:           record.Target,
		TxHash:           record.LastUpdateTxHash,
		Destination:      template.URL(record.Destination),
		DestinationValue: record.Destination,
		AutoRedirect:     autoRedirect,
	}); err != nil {
		logging.SystemErrorf("Error rendering verification page for record [%s]: %v", recordID, err)
	}
}
