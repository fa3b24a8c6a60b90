package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/health/ready", s.handleHealthReady)
	s.router.GET("/health/detailed", s.handleHealthDetailed)

	v1 := s.router.Group("/oracle/v1")
	{
		v1.GET("/status", s.handleStatus)

		feeds := v1.Group("/feeds/:feed_id")
		{
			feeds.GET("", s.handleFeed)
			feeds.GET("/price", s.handlePrice)
			feeds.GET("/history", s.handleHistory)
			feeds.GET("/windows/:window_id", s.handleConsensus)
			feeds.GET("/windows/:window_id/submissions/:reporter", s.handleSubmission)
		}

		reporters := v1.Group("/reporters/:reporter")
		{
			reporters.GET("/reputation", s.handleReputation)
			reporters.GET("/required-burn", s.handleRequiredBurn)
		}
	}
}
