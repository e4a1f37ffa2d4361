package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Astrodynamics Platform API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Astrodynamics Platform API",
			"description": "Earth orientation data platform with PostgreSQL-backed EOP ingestion and a reference frame transform service",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Astrodynamics Platform Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/frames": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List reference frames",
					"description": "Describe the predefined reference frame vocabulary and its tree structure",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"data": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "object",
													"properties": map[string]interface{}{
														"key":             map[string]string{"type": "string"},
														"parent":          map[string]string{"type": "string"},
														"depth":           map[string]string{"type": "integer"},
														"pseudo_inertial": map[string]string{"type": "boolean"},
													},
												},
											},
											"count": map[string]string{"type": "integer"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/transform": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Compute a frame transform",
					"description": "Compute the transform between two named frames at a date",
					"parameters": []map[string]interface{}{
						{
							"name":        "from",
							"in":          "query",
							"description": "Source frame key (e.g. GCRF, EME2000, ITRF)",
							"required":    true,
							"schema":      map[string]string{"type": "string"},
						},
						{
							"name":        "to",
							"in":          "query",
							"description": "Destination frame key",
							"required":    true,
							"schema":      map[string]string{"type": "string"},
						},
						{
							"name":        "date",
							"in":          "query",
							"description": "Epoch as an RFC 3339 timestamp",
							"required":    true,
							"schema":      map[string]string{"type": "string", "format": "date-time"},
						},
						{
							"name":        "raw",
							"in":          "query",
							"description": "Bypass transform interpolation (default: false)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "boolean", "default": false},
						},
					},
					"responses": map[string]interface{}{
						"200": transformResponseSchema(),
						"400": map[string]interface{}{
							"description": "Unknown frame or malformed date",
						},
						"503": map[string]interface{}{
							"description": "Earth orientation data unavailable",
						},
					},
				},
				"post": map[string]interface{}{
					"summary":     "Compute a frame transform and map a state",
					"description": "Compute the transform between two named frames and optionally map a position and velocity through it",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"from":         map[string]string{"type": "string"},
										"to":           map[string]string{"type": "string"},
										"date":         map[string]string{"type": "string", "format": "date-time"},
										"raw":          map[string]string{"type": "boolean"},
										"position_m":   map[string]interface{}{"type": "array", "items": map[string]string{"type": "number"}},
										"velocity_mps": map[string]interface{}{"type": "array", "items": map[string]string{"type": "number"}},
									},
									"required": []string{"from", "to", "date"},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": transformResponseSchema(),
						"400": map[string]interface{}{
							"description": "Unknown frame, malformed date or invalid state",
						},
						"503": map[string]interface{}{
							"description": "Earth orientation data unavailable",
						},
					},
				},
			},
			"/api/eop": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get Earth orientation values",
					"description": "Interpolate the stored Earth orientation parameters at a date",
					"parameters": []map[string]interface{}{
						{
							"name":        "convention",
							"in":          "query",
							"description": "IERS convention (1996, 2003 or 2010; default: 2010)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "string", "default": "2010"},
						},
						{
							"name":        "date",
							"in":          "query",
							"description": "Epoch as an RFC 3339 timestamp",
							"required":    true,
							"schema":      map[string]string{"type": "string", "format": "date-time"},
						},
						{
							"name":        "simple",
							"in":          "query",
							"description": "Skip the tidal corrections (default: false)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "boolean", "default": false},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"convention": map[string]string{"type": "string"},
											"date":       map[string]string{"type": "string", "format": "date-time"},
											"mjd":        map[string]string{"type": "number"},
											"dut1_s":     map[string]string{"type": "number"},
											"lod_s":      map[string]string{"type": "number"},
											"pole_x_rad": map[string]string{"type": "number"},
											"pole_y_rad": map[string]string{"type": "number"},
											"ddpsi_rad":  map[string]string{"type": "number"},
											"ddeps_rad":  map[string]string{"type": "number"},
											"dx_rad":     map[string]string{"type": "number"},
											"dy_rad":     map[string]string{"type": "number"},
										},
									},
								},
							},
						},
						"400": map[string]interface{}{
							"description": "Unknown convention or malformed date",
						},
						"503": map[string]interface{}{
							"description": "Earth orientation data unavailable",
						},
					},
				},
			},
			"/api/eop/coverage": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get Earth orientation coverage",
					"description": "Summarize the stored tabulation span and continuity per convention",
					"parameters": []map[string]interface{}{
						{
							"name":        "convention",
							"in":          "query",
							"description": "Restrict to one IERS convention",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"convention":       map[string]string{"type": "string"},
											"start_mjd":        map[string]string{"type": "number"},
											"end_mjd":          map[string]string{"type": "number"},
											"entry_count":      map[string]string{"type": "integer"},
											"largest_gap_days": map[string]string{"type": "number"},
											"continuous":       map[string]string{"type": "boolean"},
										},
									},
								},
							},
						},
						"404": map[string]interface{}{
							"description": "No stored data for the convention",
						},
					},
				},
			},
			"/api/eop/datasets": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List ingested datasets",
					"description": "Retrieve the ingested Earth orientation products with filtering and pagination",
					"parameters": []map[string]interface{}{
						{
							"name":        "convention",
							"in":          "query",
							"description": "Filter by IERS convention",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
						{
							"name":        "format",
							"in":          "query",
							"description": "Filter by product format (c04 or columns)",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
						{
							"name":        "page",
							"in":          "query",
							"description": "Page number (default: 1)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 1},
						},
						{
							"name":        "limit",
							"in":          "query",
							"description": "Records per page (default: 100)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 100},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"data": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "object",
													"properties": map[string]interface{}{
														"id":          map[string]string{"type": "integer"},
														"convention":  map[string]string{"type": "string"},
														"source":      map[string]string{"type": "string"},
														"format":      map[string]string{"type": "string"},
														"start_mjd":   map[string]string{"type": "number"},
														"end_mjd":     map[string]string{"type": "number"},
														"entry_count": map[string]string{"type": "integer"},
														"created_at":  map[string]string{"type": "string", "format": "date-time"},
													},
												},
											},
											"total":       map[string]string{"type": "integer"},
											"page":        map[string]string{"type": "integer"},
											"limit":       map[string]string{"type": "integer"},
											"total_pages": map[string]string{"type": "integer"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and its backing store are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}

// transformResponseSchema describes the transform payload shared by the GET
// and POST variants of /api/transform.
func transformResponseSchema() map[string]interface{} {
	return map[string]interface{}{
		"description": "Successful response",
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"from":         map[string]string{"type": "string"},
						"to":           map[string]string{"type": "string"},
						"date":         map[string]string{"type": "string", "format": "date-time"},
						"interpolated": map[string]string{"type": "boolean"},
						"translation_m": map[string]interface{}{
							"type":  "array",
							"items": map[string]string{"type": "number"},
						},
						"velocity_mps": map[string]interface{}{
							"type":  "array",
							"items": map[string]string{"type": "number"},
						},
						"rotation": map[string]interface{}{
							"type":        "array",
							"items":       map[string]string{"type": "number"},
							"description": "Unit quaternion, scalar first",
						},
						"rotation_rate_radps": map[string]interface{}{
							"type":  "array",
							"items": map[string]string{"type": "number"},
						},
						"position_m": map[string]interface{}{
							"type":  "array",
							"items": map[string]string{"type": "number"},
						},
						"pv_velocity_mps": map[string]interface{}{
							"type":  "array",
							"items": map[string]string{"type": "number"},
						},
					},
				},
			},
		},
	}
}
