package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/ui"
)

const clientScript = `
(function () {
  document.addEventListener("click", function (e) {
    var tab = e.target.closest("[data-tab]");
    if (tab) {
      var root = tab.closest(".result");
      root.querySelectorAll("[data-tab]").forEach(function (b) { b.setAttribute("aria-selected", b === tab ? "true" : "false"); });
      root.querySelectorAll("[data-panel]").forEach(function (p) { p.hidden = p.dataset.panel !== tab.dataset.tab; });
      return;
    }
    if (e.target.closest(".speak")) {
      try {
        speechSynthesis.cancel();
        JSON.parse(e.target.closest(".speak").dataset.utterances || "[]").forEach(function (u) {
          var msg = new SpeechSynthesisUtterance(u.text);
          msg.lang = u.lang;
          speechSynthesis.speak(msg);
        });
      } catch (err) { console.warn("speech unavailable", err); }
      return;
    }
    if (e.target.closest(".stop-speech")) {
      try { speechSynthesis.cancel(); } catch (err) {}
    }
  });

  document.body.addEventListener("showToast", function (e) {
    var toast = document.getElementById("toast");
    if (!toast) return;
    toast.textContent = e.detail.message;
    toast.className = "toast " + (e.detail.type || "info");
    toast.hidden = false;
    clearTimeout(toast._timer);
    toast._timer = setTimeout(function () { toast.hidden = true; }, 5000);
  });

  var logs = document.getElementById("logs");
  var progress = document.getElementById("progress");
  if (!logs) return;

  function line(frame) {
    var li = document.createElement("li");
    li.className = "log-" + (frame.severity || "info");
    var t = document.createElement("time");
    t.textContent = new Date(frame.timestamp).toLocaleTimeString();
    li.appendChild(t);
    li.appendChild(document.createTextNode(" " + frame.message));
    logs.appendChild(li);
    while (logs.children.length > 100) logs.removeChild(logs.firstChild);
    logs.scrollTop = logs.scrollHeight;
  }

  function bar(frame) {
    if (!progress) return;
    var pct = Math.round(frame.progress) + "%";
    progress.hidden = frame.done && !frame.failed;
    progress.querySelector(".bar").style.width = pct;
    progress.querySelector(".label").textContent = frame.label;
    progress.querySelector(".pct").textContent = pct;
  }

  function refresh(path, target) {
    if (!window.htmx || !document.querySelector(target)) return;
    htmx.ajax("GET", path, { target: target, swap: "outerHTML" });
  }

  var attempt = 0;
  function connect() {
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/logs");
    ws.onopen = function () { attempt = 0; };
    ws.onmessage = function (e) {
      var frame = JSON.parse(e.data);
      switch (frame.type) {
      case "progress": bar(frame); break;
      case "summary": refresh("/api/result", "#result"); break;
      case "history": refresh("/api/history", "#history"); break;
      default: line(frame);
      }
    };
    ws.onclose = function () {
      if (attempt >= 5) return;
      var delay = Math.min(1000 * Math.pow(2, attempt), 10000);
      attempt++;
      setTimeout(connect, delay);
    };
  }
  connect();
})();
`

// Layout wraps page content in the shared document shell
func Layout(title, email string, authEnabled bool, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`).Text(title).Raw(` · Glimpse</title>`)
		h.Raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.Raw(`<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`)
		h.Raw(`</head><body><header class="nav"><a class="brand" href="/">Glimpse</a><nav>`)
		switch {
		case email != "":
			h.Raw(`<a href="/profile">`).Text(email).Raw(`</a>`)
			h.Raw(`<form method="post" action="/logout" class="inline"><button type="submit">Sign out</button></form>`)
		case authEnabled:
			h.Raw(`<a href="/login">Sign in</a> <a href="/signup">Sign up</a>`)
		}
		h.Raw(`</nav></header><main>`)
		h.Component(ctx, content)
		h.Raw(`</main><div id="toast" class="toast" role="status" hidden></div>`)
		h.Raw(`<script>`).Raw(clientScript).Raw(`</script></body></html>`)
		return h.Err()
	})
}
