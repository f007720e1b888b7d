// Package gateway 实现请求转发层：按端点表把仪表盘请求转发到上游社团平台，
// 统一响应信封，并对固定的只读端点执行兜底数据替换。
package gateway

import (
	"net/http"
)

// Descriptor 描述一次完整构造好的出站请求
type Descriptor struct {
	Method    string
	TargetURL string
	Header    http.Header
	Body      []byte
}

// BuildDescriptor 根据入站请求构造出站请求描述：
//   - Accept 恒为 */*；
//   - 命名端点声明转发鉴权时，拷贝入站 Authorization（公开端点不拷贝）；
//   - 仅非 GET 请求携带 Content-Type 与请求体。
func BuildDescriptor(r *http.Request, targetURL string, forwardsAuth bool, body []byte) Descriptor {
	h := make(http.Header)
	h.Set("Accept", "*/*")

	if r.Method != http.MethodGet {
		h.Set("Content-Type", "application/json")
	}
	if forwardsAuth {
		if auth := r.Header.Get("Authorization"); auth != "" {
			h.Set("Authorization", auth)
		}
	}

	d := Descriptor{
		Method:    r.Method,
		TargetURL: targetURL,
		Header:    h,
	}
	if r.Method != http.MethodGet {
		d.Body = body
	}
	return d
}
