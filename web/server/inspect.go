package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/integrator"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectIndex  int                    `json:"objectIndex"` // Index in the scene's object list, -1 on a miss
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo extracts material parameters with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts shape parameters with type assertions
func extractGeometryInfo(obj geometry.Hittable, time float64) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch g := obj.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{g.Center.X, g.Center.Y, g.Center.Z}
		properties["radius"] = g.Radius
		return "sphere", properties

	case *geometry.MovingSphere:
		center := g.CenterAt(time)
		properties["center"] = [3]float64{center.X, center.Y, center.Z}
		properties["center0"] = [3]float64{g.Center0.X, g.Center0.Y, g.Center0.Z}
		properties["center1"] = [3]float64{g.Center1.X, g.Center1.Y, g.Center1.Z}
		properties["radius"] = g.Radius
		return "moving-sphere", properties

	default:
		return "unknown", properties
	}
}

func hexColor(c core.Color) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// inspectPixel casts the ray through the center of output pixel (x, y) and
// reports the closest object it hits. The lens and shutter are sampled with
// a fixed seed so repeated inspections agree.
func inspectPixel(sceneObj *scene.Scene, x, y int) (InspectResponse, error) {
	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	if x < 0 || x >= width || y < 0 || y >= height {
		return InspectResponse{}, fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, y, width, height)
	}

	camera, err := sceneObj.NewCamera()
	if err != nil {
		return InspectResponse{}, err
	}

	// Same pixel-to-viewport mapping as the renderer, at the pixel center
	j := height - 1 - y
	u := (float64(x) + 0.5) / float64(max(1, width-1))
	v := (float64(j) + 0.5) / float64(max(1, height-1))
	ray := camera.GetRay(u, v, core.NewSeededSampler(0))

	response := InspectResponse{ObjectIndex: -1}
	closest := math.Inf(1)
	var rec material.HitRecord
	for i, obj := range sceneObj.World.Objects() {
		var candidate material.HitRecord
		result := obj.Hit(ray, integrator.ShadowAcneEpsilon, closest, &candidate)
		if !result.IsHit() {
			continue
		}
		closest = candidate.T
		rec = candidate

		response.Hit = true
		response.ObjectIndex = i
		response.GeometryType, response.Properties = extractGeometryInfo(obj, ray.Time)
		var materialProps map[string]interface{}
		response.MaterialType, materialProps = extractMaterialInfo(result.Material())
		response.Properties["material"] = materialProps
	}

	if response.Hit {
		response.Point = [3]float64{rec.Point.X, rec.Point.Y, rec.Point.Z}
		response.Normal = [3]float64{rec.Normal.X, rec.Normal.Y, rec.Normal.Z}
		response.Distance = rec.T * ray.Direction.Length()
		response.FrontFace = rec.FrontFace
	}
	return response, nil
}

// handleInspect reports which object is visible at a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	query := r.URL.Query()
	x, err := parseIntParam(query, "x", -1, 0, sceneObj.SamplingConfig.Width-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	y, err := parseIntParam(query, "y", -1, 0, sceneObj.SamplingConfig.Height-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	response, err := inspectPixel(sceneObj, x, y)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}
