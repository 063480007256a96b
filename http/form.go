package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"homeval/logging"
	"homeval/property"
)

// The form page is self-contained: fields come from the schema, the
// script filters municipalities by region and posts to /api/predict.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Property Price Predictor</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
label { display: block; margin-top: .8rem; font-weight: bold; }
input, select { width: 100%; padding: .4rem; margin-top: .2rem; }
button { margin-top: 1.2rem; padding: .6rem 1.4rem; }
#result { margin-top: 1.2rem; padding: .8rem; display: none; }
#result.ok { display: block; background: #e6f4e6; }
#result.err { display: block; background: #f8e1e1; }
#category { color: #555; font-weight: normal; }
</style>
</head>
<body>
<h1>Property Price Predictor</h1>
<form id="predict-form">
{{range .Fields}}
  <label for="{{.Name}}">{{.Label}}{{if eq .Name "living_area"}} <span id="category"></span>{{end}}</label>
  {{if eq .Kind "enum"}}
  <select id="{{.Name}}" name="{{.Name}}">
    {{range .Options}}<option value="{{.}}">{{.}}</option>{{end}}
  </select>
  {{else if eq .Kind "bool"}}
  <select id="{{.Name}}" name="{{.Name}}" data-kind="bool">
    <option value="false">No</option>
    <option value="true">Yes</option>
  </select>
  {{else}}
  <input id="{{.Name}}" name="{{.Name}}" type="number" min="{{.Min}}" max="{{.Max}}" value="{{.Min}}" data-kind="int">
  {{end}}
{{end}}
<button type="submit">Predict Price</button>
</form>
<div id="result"></div>
<script>
const municipalities = {{.MunicipalitiesJSON}};
const regionSelect = document.getElementById("region");
const municipalitySelect = document.getElementById("municipality");
function fillMunicipalities() {
  const options = municipalities[regionSelect.value] || [];
  municipalitySelect.innerHTML = "";
  for (const name of options) {
    const opt = document.createElement("option");
    opt.value = name;
    opt.textContent = name;
    municipalitySelect.appendChild(opt);
  }
}
regionSelect.addEventListener("change", fillMunicipalities);
fillMunicipalities();

document.getElementById("predict-form").addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const payload = {};
  for (const el of ev.target.elements) {
    if (!el.name) continue;
    if (el.dataset.kind === "int") payload[el.name] = Number(el.value);
    else if (el.dataset.kind === "bool") payload[el.name] = el.value === "true";
    else payload[el.name] = el.value;
  }
  const result = document.getElementById("result");
  try {
    const resp = await fetch("/api/predict", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify(payload),
    });
    const body = await resp.json();
    if (resp.ok) {
      result.className = "ok";
      result.textContent = "Predicted Price: " + body.formatted_price + " (" + body.size_category + ")";
    } else {
      result.className = "err";
      result.textContent = body.field ? body.field + ": " + body.error : body.error;
    }
  } catch (err) {
    result.className = "err";
    result.textContent = "request failed: " + err;
  }
});
</script>
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexPage))

func handleIndex(w http.ResponseWriter, r *http.Request) {
	municipalities := make(map[string][]string)
	for _, region := range property.Regions() {
		municipalities[region] = property.Municipalities(region)
	}
	encoded, err := json.Marshal(municipalities)
	if err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(w, struct {
		Fields             []property.Field
		MunicipalitiesJSON template.JS
	}{
		Fields:             property.Fields(),
		MunicipalitiesJSON: template.JS(encoded),
	})
	if err != nil {
		logging.L().Error("failed to render form page", zap.Error(err))
	}
}
