package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Curriculum API",
        "description": "Program, study plan and subject reconciliation service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Programs and their category hierarchy"},
        {"name": "CoursePlans", "description": "Study plans, credit requirements and exports"},
        {"name": "Imports", "description": "Tabular subject reconciliation"},
        {"name": "Subjects", "description": "Single subject edits, plan placements and prerequisites"}
    ],
    "paths": {
        "/courses": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create program",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate category", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/categories": {
            "get": {
                "tags": ["Courses"],
                "summary": "Category tree of a program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Append categories",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AppendCategoriesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate category", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/categories/catalog": {
            "get": {
                "tags": ["Courses"],
                "summary": "Checkbox category catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/course-plans": {
            "post": {
                "tags": ["CoursePlans"],
                "summary": "Create study plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unresolved program or category", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/course-plans/{id}/hide": {
            "patch": {
                "tags": ["CoursePlans"],
                "summary": "Hide study plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Hidden"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/course-plans/{id}/credits": {
            "get": {
                "tags": ["CoursePlans"],
                "summary": "Credit requirements of a plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/course-plans/{id}/export": {
            "get": {
                "tags": ["CoursePlans"],
                "summary": "Export plan subjects",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "412": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/imports/subjects": {
            "post": {
                "tags": ["Imports"],
                "summary": "Import subjects",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Committed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unresolved reference", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "put": {
                "tags": ["Subjects"],
                "summary": "Update subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate subject code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown hour profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subject-assignments": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Place subject in plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already placed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subject-assignments/{id}": {
            "delete": {
                "tags": ["Subjects"],
                "summary": "Remove subject from plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prerequisites": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Create prerequisite link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PrerequisiteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Subject not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Move prerequisite link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePrerequisiteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete prerequisite link",
                "parameters": [
                    {"name": "subject_id", "in": "query", "required": true, "type": "integer"},
                    {"name": "previous_subject_id", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CategoryNode": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "children": {"type": "array", "items": {"$ref": "#/definitions/CategoryNode"}}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": ["name_course_th", "department_id"],
            "properties": {
                "name_course_th": {"type": "string"},
                "name_course_use": {"type": "string"},
                "name_course_eng": {"type": "string"},
                "name_full_degree_th": {"type": "string"},
                "name_full_degree_eng": {"type": "string"},
                "name_initials_degree_th": {"type": "string"},
                "name_initials_degree_eng": {"type": "string"},
                "department_id": {"type": "integer"},
                "categories": {"type": "array", "items": {"$ref": "#/definitions/CategoryNode"}},
                "category_keys": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AppendCategoriesRequest": {
            "type": "object",
            "required": ["categories"],
            "properties": {
                "categories": {"type": "array", "items": {"$ref": "#/definitions/CategoryNode"}}
            }
        },
        "CategoryCredit": {
            "type": "object",
            "properties": {
                "category_id": {"type": "integer"},
                "credit": {"type": "integer"}
            }
        },
        "CreatePlanRequest": {
            "type": "object",
            "required": ["course_id", "plan_course"],
            "properties": {
                "course_id": {"type": "integer"},
                "plan_course": {"type": "string"},
                "total_credit": {"type": "integer"},
                "general_subject_credit": {"type": "integer"},
                "specific_subject_credit": {"type": "integer"},
                "free_subject_credit": {"type": "integer"},
                "internship_hours": {"type": "integer"},
                "credit_intern": {"type": "integer"},
                "credits": {"type": "array", "items": {"$ref": "#/definitions/CategoryCredit"}},
                "use_catalog_defaults": {"type": "boolean"}
            }
        },
        "UpdateSubjectRequest": {
            "type": "object",
            "required": ["subject_code", "name_subject_thai", "is_visible"],
            "properties": {
                "subject_code": {"type": "string"},
                "name_subject_thai": {"type": "string"},
                "name_subject_eng": {"type": "string"},
                "credit": {"type": "integer"},
                "lecture_hours": {"type": "integer"},
                "lab_hours": {"type": "integer"},
                "self_study_hours": {"type": "integer"},
                "is_visible": {"type": "boolean"}
            }
        },
        "AssignSubjectRequest": {
            "type": "object",
            "required": ["subject_id", "course_plan_id", "study_year", "study_term"],
            "properties": {
                "subject_id": {"type": "integer"},
                "course_plan_id": {"type": "integer"},
                "study_year": {"type": "integer"},
                "study_term": {"type": "integer"},
                "choose_one": {"type": "boolean"}
            }
        },
        "PrerequisiteRequest": {
            "type": "object",
            "required": ["subject_id", "previous_subject_id"],
            "properties": {
                "subject_id": {"type": "integer"},
                "previous_subject_id": {"type": "integer"}
            }
        },
        "UpdatePrerequisiteRequest": {
            "type": "object",
            "required": ["original", "subject_id", "previous_subject_id"],
            "properties": {
                "original": {"$ref": "#/definitions/PrerequisiteRequest"},
                "subject_id": {"type": "integer"},
                "previous_subject_id": {"type": "integer"}
            }
        },
        "RowError": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "field": {"type": "string"},
                "value": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"$ref": "#/definitions/RowError"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
