package oracle

import (
	"context"
	"fmt"
	"strings"

	"tandem/core"
	"tandem/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
)

type feedClient struct {
	endpoint string
}

// NewFeed aggregator gateway client pulling latest oracle rounds over rest
func NewFeed(endpoint string) core.IPriceFeed {
	return &feedClient{endpoint: strings.TrimSuffix(endpoint, "/")}
}

func (c *feedClient) LatestRound(ctx context.Context, feedID string) (*core.PriceRound, error) {
	url := fmt.Sprintf("%s/feeds/%s/rounds/latest", c.endpoint, feedID)
	logger.FromContext(ctx).Debugln("pull round:", url)

	resp, err := resthttp.WithRequestID(ctx, uuid.New()).Get(url)
	if err != nil {
		return nil, err
	}

	var round core.PriceRound
	if err := resthttp.ParseResponse(resp, &round); err != nil {
		return nil, err
	}

	round.FeedID = feedID
	return &round, nil
}
