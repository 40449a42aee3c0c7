package live

// clientScript connects the page to its session, forwards events for
// elements that carry data-on-<type> markers and applies renders.
const clientScript = `(function () {
  var url = new URL("ws", location.href);
  url.protocol = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(url);
  var types = ["click", "dblclick", "input", "change", "submit", "keydown", "keyup", "focus", "blur"];

  function forward(e) {
    if (!e.target.closest || ws.readyState !== 1) return;
    var el = e.target.closest("[data-on-" + e.type + "]");
    if (!el) return;
    if (e.type === "submit" || (e.type === "click" && el.tagName === "A")) e.preventDefault();
    var msg = { type: "event", hid: el.getAttribute("data-hid"), event: e.type };
    if ("value" in el) msg.value = String(el.value);
    ws.send(JSON.stringify(msg));
  }
  types.forEach(function (t) { document.addEventListener(t, forward, true); });

  ws.onmessage = function (m) {
    var msg = JSON.parse(m.data);
    if (msg.type === "render") {
      var active = document.activeElement;
      var hid = active && active.getAttribute ? active.getAttribute("data-hid") : null;
      var start = active ? active.selectionStart : null, end = active ? active.selectionEnd : null;
      document.body.innerHTML = msg.html;
      if (!hid) return;
      var el = document.querySelector('[data-hid="' + hid + '"]');
      if (!el) return;
      el.focus();
      try { el.setSelectionRange(start, end); } catch (err) {}
    } else if (msg.type === "reload") {
      location.reload();
    } else if (msg.type === "error") {
      console.warn("vbind:", msg.code, msg.message);
    }
  };
})();`
