package constant

import "fmt"

type AppError struct {
	ErrorCode string
	Message   string
	Params    map[string]interface{}
}

func (e AppError) Code() string  { return e.ErrorCode }
func (e AppError) Error() string { return e.Message }

type UnauthorizedError struct{ AppError }

func NewUnauthorizedError(code, message string, params map[string]interface{}) *UnauthorizedError {
	return &UnauthorizedError{
		AppError: AppError{
			ErrorCode: code,
			Message:   message,
			Params:    params,
		},
	}
}

type BadRequestError struct{ AppError }

func NewBadRequestError(code, message string, params map[string]interface{}) *BadRequestError {
	return &BadRequestError{
		AppError: AppError{
			ErrorCode: code,
			Message:   message,
			Params:    params,
		},
	}
}

type NotFoundError struct{ AppError }

func NewNotFoundError(code, message string, params map[string]interface{}) *NotFoundError {
	return &NotFoundError{
		AppError: AppError{
			ErrorCode: code,
			Message:   message,
			Params:    params,
		},
	}
}

type ForbiddenError struct{ AppError }

func NewForbiddenError(code, message string, params map[string]interface{}) *ForbiddenError {
	return &ForbiddenError{
		AppError: AppError{
			ErrorCode: code,
			Message:   message,
			Params:    params,
		},
	}
}

type InternalServerError struct{ AppError }

func NewInternalServerError(code, message string, params map[string]interface{}) *InternalServerError {
	return &InternalServerError{
		AppError: AppError{
			ErrorCode: code,
			Message:   message,
			Params:    params,
		},
	}
}

var (
	EMPTY_MEASUREMENT_TOOLS = NewInternalServerError("empty_measurement_tools", "No measurement tool is configured", nil)
)

func INVALID_NUMBER(number string) *BadRequestError {
	return NewBadRequestError("invalid_number", fmt.Sprintf("Invalid number: %v", number),
		map[string]interface{}{"Number": number})
}

func SESSION_NOT_FOUND(id string) *NotFoundError {
	return NewNotFoundError("session_not_found", fmt.Sprintf("Viewer session %s is not found", id),
		map[string]interface{}{"Id": id})
}

func UNKNOWN_TOOL_TYPE(toolType string) *BadRequestError {
	return NewBadRequestError("unknown_tool_type", fmt.Sprintf("Unknown measurement tool type: %s", toolType),
		map[string]interface{}{"ToolType": toolType})
}

func EMPTY_TOOL_GROUP(groupId string) *InternalServerError {
	return NewInternalServerError("empty_tool_group", fmt.Sprintf("Measurement tool group %s has no child tool", groupId),
		map[string]interface{}{"GroupId": groupId})
}

func DB_OPERATION_ERROR(e error) *InternalServerError {
	return NewInternalServerError("db_operation_failed", e.Error(), map[string]interface{}{})
}

func INFLUXDB_OPERATION_ERROR(e error) *InternalServerError {
	return NewInternalServerError("influxdb_operation_failed", e.Error(), map[string]interface{}{})
}

func STUDY_NOT_FOUND(studyInstanceUid string) *NotFoundError {
	return NewNotFoundError("study_not_found", fmt.Sprintf("Timepoint type of study %s is not known", studyInstanceUid),
		map[string]interface{}{"StudyInstanceUid": studyInstanceUid})
}
