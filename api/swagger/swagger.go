package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA ADP API",
        "description": "Duty roster solver service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        },
        "/teachers": {
            "get": {
                "summary": "List teachers",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules/parse-text": {
            "post": {
                "summary": "Parse a pasted weekly timetable into lesson cells",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/config/{key}": {
            "get": {
                "summary": "Read a duty config entry by key",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/solver/candidates": {
            "post": {
                "summary": "Rank candidate teachers for a duty slot",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/solver/generate": {
            "post": {
                "summary": "Solve and persist a full duty roster",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/exports": {
            "post": {
                "summary": "Queue an asynchronous roster export",
                "responses": {
                    "202": {
                        "description": "Accepted"
                    }
                }
            }
        },
        "/ocr/analyze": {
            "post": {
                "summary": "Analyze an uploaded timetable photo",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
