package process_gateway_event

// Request модель запроса на обработку события шлюза
type Request struct {
	Payload   []byte // Сырое тело webhook-запроса
	Signature string // Значение заголовка X-Gateway-Signature
}

// Result итог обработки события
type Result string

const (
	// ResultApplied событие применено к локальному состоянию
	ResultApplied Result = "applied"

	// ResultDuplicate событие уже было обработано ранее
	ResultDuplicate Result = "duplicate"

	// ResultIgnored событие неизвестного вида, зафиксировано без эффектов
	ResultIgnored Result = "ignored"
)

// Response модель ответа обработки события
type Response struct {
	Result  Result // Итог обработки
	EventID string // ID события шлюза
	Kind    string // Вид события
}
