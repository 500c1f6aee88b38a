package view

import (
	"html/template"
	"io"
)

var comparisonPage = template.Must(template.New("compare").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Compare Cars</title>
</head>
<body>
{{- if .Empty}}
<div id="emptyState" class="empty-state">
	<h2>No cars to compare</h2>
	<p>Add up to 3 cars from the listings to compare them side by side.</p>
</div>
{{- else}}
<div id="comparisonContainer">
<div id="comparisonGrid" class="comparison-grid">
{{- range .Cards}}
	<div class="comparison-card" data-car-id="{{.CarID}}">
		<div class="comparison-card-header">
			<img src="{{.ImageURL}}" alt="{{.ImageAlt}}" class="comparison-image">
		</div>
		<div class="comparison-card-body">
			<h3>{{.Title}}</h3>
			<div class="comparison-price">{{.Price}}</div>
			<div class="comparison-specs">
			{{- range .Rows}}
				<div class="spec-row"><span class="spec-label">{{.Label}}:</span> <span class="spec-value">{{.Value}}</span></div>
			{{- end}}
			</div>
			<a href="{{.DetailURL}}" class="btn btn-primary">View Details</a>
		</div>
	</div>
{{- end}}
</div>
</div>
{{- end}}
</body>
</html>
`))

// RenderHTML writes the comparison as a standalone HTML page.
func RenderHTML(w io.Writer, c Comparison) error {
	return comparisonPage.Execute(w, c)
}
