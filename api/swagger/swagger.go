package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance API",
        "description": "Student registry, attendance marking and attendance reports",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student registry"},
        {"name": "Attendance", "description": "Attendance marking and reports"},
        {"name": "Admins", "description": "College admin accounts"},
        {"name": "Observability", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "roll_no", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentListResponse"}},
                    "500": {"description": "Storage error", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/StudentCreatedResponse"}},
                    "409": {"description": "Duplicate roll_no or email", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/AttendanceMarkedResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/attendance/report/{roll_no}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Student attendance report",
                "parameters": [
                    {"name": "roll_no", "in": "path", "required": true, "type": "string"},
                    {"name": "start_date", "in": "query", "type": "string", "format": "date"},
                    {"name": "end_date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentReport"}},
                    "422": {"description": "Invalid range", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/attendance/report/{roll_no}/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Download a student attendance report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "roll_no", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "start_date", "in": "query", "type": "string", "format": "date"},
                    {"name": "end_date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Report file", "schema": {"type": "file"}},
                    "422": {"description": "Invalid format or range", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/attendance/daily": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Daily attendance analytics",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DailyReport"}},
                    "422": {"description": "Missing or malformed date", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/api/admins": {
            "get": {
                "tags": ["Admins"],
                "summary": "List college admins",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Admin"}}}
                }
            },
            "post": {
                "tags": ["Admins"],
                "summary": "Register a college admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAdminRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/AdminCreatedResponse"}},
                    "409": {"description": "Duplicate email", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Missing field", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "roll_no": {"type": "string"},
                "department": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["name", "roll_no", "department", "email"],
            "properties": {
                "name": {"type": "string"},
                "roll_no": {"type": "string"},
                "department": {"type": "string"},
                "email": {"type": "string", "format": "email"}
            }
        },
        "StudentListResponse": {
            "type": "object",
            "properties": {
                "students": {"type": "array", "items": {"$ref": "#/definitions/Student"}}
            }
        },
        "StudentCreatedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "student": {"$ref": "#/definitions/Student"}
            }
        },
        "Attendance": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["Present", "Absent"]}
            }
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "required": ["student_id", "date", "status"],
            "properties": {
                "student_id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["Present", "Absent"]}
            }
        },
        "AttendanceMarkedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "attendance": {"$ref": "#/definitions/Attendance"}
            }
        },
        "StudentReport": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "total_days": {"type": "integer"},
                "present_days": {"type": "integer"},
                "attendance_percentage": {"type": "string", "example": "50.00%"}
            }
        },
        "DailyReport": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "total_students": {"type": "integer"},
                "present": {"type": "integer"},
                "absent": {"type": "integer"},
                "attendance_percentage": {"type": "string", "example": "100.00%"}
            }
        },
        "Admin": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "college": {"type": "string"}
            }
        },
        "CreateAdminRequest": {
            "type": "object",
            "required": ["email", "password", "college"],
            "properties": {
                "email": {"type": "string", "format": "email"},
                "password": {"type": "string"},
                "college": {"type": "string"}
            }
        },
        "AdminCreatedResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/APIError"}
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
