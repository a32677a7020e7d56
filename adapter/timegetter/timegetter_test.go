package timegetter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TimeGetterTestSuite struct {
	suite.Suite
	tg *TimeGetter
}

func (s *TimeGetterTestSuite) SetupTest() {
	s.tg = NewTimeGetter().(*TimeGetter)
}

func (s *TimeGetterTestSuite) TestGetTime() {
	before := time.Now()
	result := s.tg.GetTime()
	after := time.Now()

	s.False(result.Before(before))
	s.False(result.After(after))
}

func (s *TimeGetterTestSuite) TestDurationIsNeverNegative() {
	start := s.tg.GetTime()
	s.GreaterOrEqual(s.tg.GetTime().Sub(start), time.Duration(0))
}

func TestTimeGetterTestSuite(t *testing.T) {
	suite.Run(t, new(TimeGetterTestSuite))
}
