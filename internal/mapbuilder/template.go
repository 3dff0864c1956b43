package mapbuilder

import (
	"html/template"

	"github.com/stats19/collision-explorer/internal/core/model"
)

type tmplData struct {
	Mode       string
	CenterLat  float64
	CenterLon  float64
	Zoom       int
	HeatRadius int
	HeatBlur   int
	Payload    template.JS
}

func pageData(mode model.Mode, bounds model.Bounds, payload []byte, cfg Config) tmplData {
	center := bounds.Center()
	return tmplData{
		Mode:       string(mode),
		CenterLat:  center.Lat,
		CenterLon:  center.Lon,
		Zoom:       6,
		HeatRadius: cfg.HeatRadius,
		HeatBlur:   cfg.HeatBlur,
		Payload:    template.JS(payload),
	}
}

var pageTmpl = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Collision map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
  attribution: '&copy; OpenStreetMap contributors &copy; CARTO',
  maxZoom: 19
}).addTo(map);
var data = {{.Payload}};
{{if eq .Mode "Cluster"}}
data.forEach(function (c) {
  L.circleMarker([c.lat, c.lon], {
    radius: Math.min(4 + 2 * Math.log(c.count + 1), 30),
    color: '#c0392b',
    fillOpacity: 0.6
  }).bindPopup(c.count + ' collisions').addTo(map);
});
{{else}}
L.heatLayer(data, { radius: {{.HeatRadius}}, blur: {{.HeatBlur}} }).addTo(map);
{{end}}
</script>
</body>
</html>
`))
