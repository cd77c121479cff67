package dashboard

import "text/template"

// Pinned CDN versions of the Vega runtime stack. These are part of the page
// template, not configuration: bumping them is a code change that has to be
// verified against the generated embed markup.
const (
	vegaVersion      = "5"
	vegaLiteVersion  = "5.20.1"
	vegaEmbedVersion = "6"
)

// pageData is the fully synthesized input to the page template. Blocks,
// SpecDecls, RenderCalls and EmbedCSS are pre-rendered fragments inserted
// verbatim; the template itself only carries the static chrome.
type pageData struct {
	HeadTitle string
	Heading   string
	Subtitle  string
	Footer    string

	VegaVersion      string
	VegaLiteVersion  string
	VegaEmbedVersion string

	EmbedCSS    string
	Blocks      string
	SpecDecls   string
	RenderCalls string
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.HeadTitle}}</title>
  <style>
    body {
      font-family: Arial, sans-serif;
      margin: 0;
      padding: 20px;
      background-color: #f5f5f5;
    }

    .container {
      max-width: 1400px;
      margin: 0 auto;
      background-color: white;
      padding: 20px;
      box-shadow: 0 2px 4px rgba(0,0,0,0.1);
    }

    h1 {
      text-align: center;
      color: #333;
      margin-bottom: 10px;
      font-size: 28px;
    }

    .subtitle {
      text-align: center;
      color: #666;
      margin-bottom: 30px;
      font-size: 14px;
    }

    .visualization {
      margin-bottom: 40px;
      border: 1px solid #ddd;
      padding: 20px;
      border-radius: 5px;
      background-color: #fafafa;
    }

    .visualization:last-child {
      margin-bottom: 0;
    }

    .vis-title {
      font-size: 20px;
      font-weight: bold;
      color: #555;
      margin-bottom: 15px;
      padding-bottom: 10px;
      border-bottom: 2px solid #007bff;
    }
{{.EmbedCSS}}
    .footer {
      text-align: center;
      margin-top: 30px;
      padding-top: 20px;
      border-top: 1px solid #ddd;
      color: #999;
      font-size: 12px;
    }
  </style>
  <script type="text/javascript" src="https://cdn.jsdelivr.net/npm/vega@{{.VegaVersion}}"></script>
  <script type="text/javascript" src="https://cdn.jsdelivr.net/npm/vega-lite@{{.VegaLiteVersion}}"></script>
  <script type="text/javascript" src="https://cdn.jsdelivr.net/npm/vega-embed@{{.VegaEmbedVersion}}"></script>
</head>
<body>
  <div class="container">
    <h1>{{.Heading}}</h1>
    <div class="subtitle">{{.Subtitle}}</div>
{{.Blocks}}
    <div class="footer">{{.Footer}}</div>
  </div>

  <script>
    (function(vegaEmbed) {
{{.SpecDecls}}
      var embedOpt = {"mode": "vega-lite"};

      function showError(el, error){
          el.innerHTML = ('<div style="color:red;">'
                          + '<p>JavaScript Error: ' + error.message + '</p>'
                          + "<p>This usually means there's a typo in your chart specification. "
                          + "See the javascript console for the full traceback.</p>"
                          + '</div>');
          throw error;
      }
{{.RenderCalls}}
    })(vegaEmbed);
  </script>
</body>
</html>
`))
