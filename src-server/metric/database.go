package metric

import (
	"context"
	"time"

	"postpilot/src-server/model"
	"postpilot/src-server/utils"
)

func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.CalendarEvent)(nil)).
		Where("owner_id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
