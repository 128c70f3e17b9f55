package models

import "net/http"

// Response is the envelope wrapped around every API payload.
type Response[T any] struct {
	IsSuccess  bool   `json:"isSuccess"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
	StatusCode int    `json:"statusCode"`
}

type PagedResponse[T any] struct {
	Response[T]
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
	PageNumber   int `json:"pageNumber"`
	PageSize     int `json:"pageSize"`
}

func Success[T any](status int, message string, data T) Response[T] {
	return Response[T]{IsSuccess: true, Message: message, Data: data, StatusCode: status}
}

func OK[T any](message string, data T) Response[T] {
	return Success(http.StatusOK, message, data)
}

func Failure(status int, message string) Response[any] {
	return Response[any]{IsSuccess: false, Message: message, StatusCode: status}
}
