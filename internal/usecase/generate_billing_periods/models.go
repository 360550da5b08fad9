package generate_billing_periods

// Response результат одного прогона генератора периодов
type Response struct {
	SubscriptionsProcessed int // Сколько активных абонементов просмотрено
	PeriodsCreated         int // Сколько новых периодов вставлено
}
