package server

// Server объединяет HTTP сервера, отвечающие за конкретные сущности:
// сессии игровых серверов и аукцион.
type Server struct {
	SessionServer
	AuctionServer
}

func NewServer(
	sessionServer SessionServer,
	auctionServer AuctionServer,
) Server {
	return Server{
		SessionServer: sessionServer,
		AuctionServer: auctionServer,
	}
}
