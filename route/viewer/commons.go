package viewer

import (
	"github.com/lesiontracker/tracker-server/route/shared"
	S "github.com/lesiontracker/tracker-server/service"
)

func viewerService(c *shared.Context) *S.ViewerService {
	return shared.CreateService(S.ViewerService{}, c).(*S.ViewerService)
}

func currentSession(c *shared.Context) (*S.ViewerSession, error) {
	return viewerService(c).Get(c.Me(), c.Param("session_id"))
}
