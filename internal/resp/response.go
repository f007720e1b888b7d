// Package resp 定义网关对外的统一响应信封 {code, message, data}。
// 内部使用带标签的 Result 类型区分成功与失败，仅在写出 HTTP 响应时
// 序列化为扁平的信封结构，避免内部逻辑把失败当作数据处理。
package resp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// CodeOK 是调用方唯一认定为成功的业务码
const CodeOK = 200

// CodeInternalError 表示网关自身或上游传输层故障
const CodeInternalError = 500

// Result 是信封的内部表示。
// ok 由业务码是否为 CodeOK 决定；raw 非空时表示原样转发上游信封，
// 序列化时逐字节输出，保证"已有 code 字段则原样转发"的约定。
type Result struct {
	ok      bool
	code    int
	message string
	data    json.RawMessage
	raw     json.RawMessage
}

// Success 构造成功结果
func Success(data json.RawMessage) Result {
	return Result{ok: true, code: CodeOK, message: "success", data: data}
}

// SuccessWithMessage 构造带自定义提示的成功结果
func SuccessWithMessage(message string, data json.RawMessage) Result {
	return Result{ok: true, code: CodeOK, message: message, data: data}
}

// Failure 构造失败结果
func Failure(code int, message string) Result {
	return Result{ok: false, code: code, message: message}
}

// OK 报告结果是否成功（code == 200）
func (r Result) OK() bool { return r.ok }

// Code 返回业务码
func (r Result) Code() int { return r.code }

// Message 返回提示信息
func (r Result) Message() string { return r.message }

// Data 返回载荷（可能为 nil）
func (r Result) Data() json.RawMessage { return r.data }

// envelope 是信封的线上形态
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// MarshalJSON 将结果序列化为 {code, message, data}。
// 原样转发的结果直接输出上游字节，不做重排。
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	data := r.data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return json.Marshal(envelope{Code: r.code, Message: r.message, Data: data})
}

// Normalize 将上游响应体规整为统一信封：
//  1. 响应体为 JSON 对象且含整数 code 字段时原样转发；
//  2. 否则整体包装为 {code:200, message:"success", data:<原响应体>}。
//
// 注意：规则 2 对非 2xx 的 HTTP 状态同样生效——上游用 404/500 返回一个
// 不带 code 字段的错误体时，调用方看到的仍是 code:200，错误体嵌在 data
// 里。这是沿用既有网关的行为，改动它属于产品决策而非移植决策。
func Normalize(body []byte) Result {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Success(nil)
	}

	var probe struct {
		Code    *int            `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &probe); err == nil && probe.Code != nil {
		return Result{
			ok:      *probe.Code == CodeOK,
			code:    *probe.Code,
			message: probe.Message,
			data:    probe.Data,
			raw:     json.RawMessage(trimmed),
		}
	}

	return Success(json.RawMessage(trimmed))
}

// Write 以给定 HTTP 状态码写出信封
func Write(w http.ResponseWriter, status int, r Result) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	body, err := json.Marshal(r)
	if err != nil {
		// Result 的序列化不应失败；兜底输出一个最小错误信封
		fmt.Fprintf(w, `{"code":%d,"message":"encode response: %s","data":null}`, CodeInternalError, err)
		return
	}
	_, _ = w.Write(body)
}

// WriteOK 以 HTTP 200 写出信封
func WriteOK(w http.ResponseWriter, r Result) {
	Write(w, http.StatusOK, r)
}
