// Package htmlchart renders the HTML page hosting the Vizzu widget of a chart.
package htmlchart

import (
	"io"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

// DefaultVizzuURL is the ES module URL of the Vizzu library.
const DefaultVizzuURL = "https://cdn.jsdelivr.net/npm/vizzu@0.9/dist/vizzu.min.js"

// PageOptions configure the widget page.
// Empty fields are set to their defaults by Page.
type PageOptions struct {
	Title     string
	VizzuURL  string
	ModelURL  string
	EventsURL string
	Width     string
	Height    string
}

func (o PageOptions) withDefaults() PageOptions {
	if o.Title == "" {
		o.Title = "Chart"
	}
	if o.VizzuURL == "" {
		o.VizzuURL = DefaultVizzuURL
	}
	if o.ModelURL == "" {
		o.ModelURL = "model"
	}
	if o.EventsURL == "" {
		o.EventsURL = "events"
	}
	if o.Width == "" {
		o.Width = "100%"
	}
	if o.Height == "" {
		o.Height = "480px"
	}
	return o
}

// Page returns the widget page.
// The page script fetches the chart model from ModelURL,
// applies patches streamed as server-sent events from EventsURL,
// and posts click events to EventsURL.
func Page(opts PageOptions) gomponents.Node {
	opts = opts.withDefaults()
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(gomponents.Text(opts.Title)),
			),
			html.Body(
				html.Div(
					html.ID("chart"),
					html.Style("width:"+opts.Width+";height:"+opts.Height),
					gomponents.Attr("data-vizzu", opts.VizzuURL),
					gomponents.Attr("data-model", opts.ModelURL),
					gomponents.Attr("data-events", opts.EventsURL),
				),
				html.Script(html.Type("module"), gomponents.Raw(widgetScript)),
			),
		),
	)
}

// Render writes the widget page to w.
func Render(w io.Writer, opts PageOptions) error {
	return Page(opts).Render(w)
}

const widgetScript = `
const el = document.getElementById("chart");
const { default: Vizzu } = await import(el.dataset.vizzu);

let model = await (await fetch(el.dataset.model)).json();

function vizzuData(columns, data) {
  const series = columns.map(({ name, type }) => {
    let values = data[name] || [];
    if (type === "datetime") {
      values = values.map((v) => (v === null ? "" : new Date(v).toISOString()));
      return { name, type: "dimension", values };
    }
    if (type === "dimension") {
      values = values.map((v) => (v === null ? "" : String(v)));
    } else {
      values = values.map((v) => (v === null ? 0 : v));
    }
    return { name, type, values };
  });
  return { series };
}

const chart = new Vizzu(el, { data: vizzuData(model.columns, model.data) });
await chart.initializing;

chart.on("click", (event) => {
  const data = { ...(event.target || {}) };
  delete data.parent;
  fetch(el.dataset.events, {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ type: "click", data: JSON.parse(JSON.stringify(data)) }),
  });
});

function animate() {
  return chart.animate(
    { data: vizzuData(model.columns, model.data), config: model.config, style: model.style },
    { ...model.animation, duration: model.duration / 1000 },
  );
}
animate();

const source = new EventSource(el.dataset.events);
source.addEventListener("patch", (event) => {
  model = { ...model, ...JSON.parse(event.data) };
  animate();
});
source.addEventListener("model", (event) => {
  model = JSON.parse(event.data);
  animate();
});
`
