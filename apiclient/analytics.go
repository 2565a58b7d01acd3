package apiclient

import (
	"context"
	"net/url"
	"time"

	"github.com/jrsteele09/riskdesk/predictions"
)

// The analytics service is mounted under its historical spelling.
const analyticsPath = "/analystics"

const dateLayout = "2006-01-02"

func (s *SessionClient) StatOverview(ctx context.Context) (Stats, error) {
	stats, err := getJSON[Stats](ctx, s, analyticsPath+"/stat/overview")
	if err != nil {
		return nil, err
	}
	return *stats, nil
}

// StatDateRange summarizes predictions completed between from and to, both inclusive dates.
func (s *SessionClient) StatDateRange(ctx context.Context, from, to time.Time) (Stats, error) {
	path := analyticsPath + "/stat/date-range/from=" + url.PathEscape(from.Format(dateLayout)) + "&to=" + url.PathEscape(to.Format(dateLayout))
	stats, err := getJSON[Stats](ctx, s, path)
	if err != nil {
		return nil, err
	}
	return *stats, nil
}

// EmployeePredictionCounts returns approved and rejected counts per employee.
func (s *SessionClient) EmployeePredictionCounts(ctx context.Context) ([]Stats, error) {
	return getList[Stats](ctx, s, analyticsPath+"/employee-prediction-counts")
}

// PredictionAnalytics returns the analytics record for one prediction.
func (s *SessionClient) PredictionAnalytics(ctx context.Context, predictionID string) (*predictions.Job, error) {
	return getJSON[predictions.Job](ctx, s, analyticsPath+"/prediction/"+url.PathEscape(predictionID))
}
