package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
type Server struct {
	OfferServer
}

func NewServer(
	offerServer OfferServer,
) Server {
	return Server{
		OfferServer: offerServer,
	}
}
