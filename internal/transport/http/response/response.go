package response

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Notice 成功但附带提示（例如拒绝删除自己）
func Notice(msg string, data interface{}) Resp {
	return New(CodeOK, msg, data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Redirect 鉴权失败：告诉客户端该跳去哪
func Redirect(code int, customMsg, to string) Resp {
	r := Error(code, customMsg)
	r.Data = map[string]string{"redirect": to}
	return r
}

// Invalid 表单校验失败：字段级提示
func Invalid(fields map[string]string) Resp {
	return New(CodeBadRequest, "validation failed", map[string]any{"errors": fields})
}
