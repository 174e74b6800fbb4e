package view

const (
	StartMessage = `👋 <b>Маркет-демон</b>

Команды:
/status — состояние книги офферов
/offers — открытые офферы
/offer &lt;id&gt; — детали оффера
/clone &lt;id&gt; — клонировать оффер без правок`

	CloneMissingArgument = "Укажите ID оффера: /clone <id>"
	OfferMissingArgument = "Укажите ID оффера: /offer <id>"
	OffersError          = "Не удалось получить список офферов"
	NoOpenOffers         = "Открытых офферов нет"
)
