package cancel_session

// Request модель запроса на отмену сессии
type Request struct {
	SessionID int64 // ID отменяемой сессии
	CallerID  int64 // ID вызывающего (клиент-владелец или тренер сессии)
	Penalize  bool  // Запросил ли вызывающий штраф за позднюю отмену
}

// Response модель ответа с результатом отмены
type Response struct {
	SessionID    int64   // ID отмененной сессии
	Status       string  // Итоговый статус: cancelled_late или cancelled_early
	IsLate       bool    // Была ли отмена поздней (<= 24 часов до начала)
	Penalized    bool    // Применен ли штраф
	CreditMinted bool    // Начислен ли кредит абонемента
	CreditValue  float64 // Сумма начисленного кредита (0, если не начислен)
}
