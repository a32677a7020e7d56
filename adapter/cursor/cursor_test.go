package cursor

import (
	"context"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

type decoderMock struct{ mock.Mock }

// Decode implements [domain.Decoder].
func (d *decoderMock) Decode(src any, tgt any) error {
	return d.Called(src, tgt).Error(0)
}

type Obj struct {
	A int `mongolab:"a"`
}

type CursorTestSuite struct {
	suite.Suite
	data []domain.Document
}

func (s *CursorTestSuite) SetupSuite() {
	s.data = make([]domain.Document, 100)
	for n := range 100 {
		s.data[n] = data.NewOrdered(data.E{Key: "a", Value: int64(n)})
	}
}

func (s *CursorTestSuite) TestNoData() {
	for _, dt := range [][]domain.Document{nil, {}} {
		cur, err := NewCursor(context.Background(), dt)
		s.NoError(err)
		count := 0
		for cur.Next() {
			count++
		}
		s.Zero(count)
		s.ErrorIs(cur.Scan(context.Background(), new(Obj)), domain.ErrNoCurrentDocument)
		s.Zero(cur.Len())
		s.Empty(cur.All())
		s.NoError(cur.Err())
	}
}

func (s *CursorTestSuite) TestStructs() {
	cur, err := NewCursor(context.Background(), s.data)
	s.NoError(err)

	count := 0
	for cur.Next() {
		var obj Obj
		err := cur.Scan(context.Background(), &obj)
		s.NoError(err)
		s.Equal(count, obj.A)
		count++
	}
	s.Equal(100, count)
	s.NoError(cur.Err())
}

func (s *CursorTestSuite) TestExhaustAndRewind() {
	cur, err := NewCursor(context.Background(), s.data[:3])
	s.NoError(err)

	count := 0
	for cur.Next() {
		count++
	}
	s.Equal(3, count)
	s.False(cur.Next())
	s.False(cur.Next())
	s.ErrorIs(cur.Scan(context.Background(), new(Obj)), domain.ErrNoCurrentDocument)

	cur.Rewind()
	s.ErrorIs(cur.Scan(context.Background(), new(Obj)), domain.ErrScanBeforeNext)
	count = 0
	for cur.Next() {
		count++
	}
	s.Equal(3, count)
}

func (s *CursorTestSuite) TestRandomAccess() {
	cur, err := NewCursor(context.Background(), s.data)
	s.NoError(err)
	s.Equal(100, cur.Len())

	doc, err := cur.At(0)
	s.NoError(err)
	s.Same(s.data[0], doc)

	doc, err = cur.At(-1)
	s.NoError(err)
	s.Same(s.data[99], doc)

	_, err = cur.At(100)
	s.ErrorAs(err, new(domain.ErrIndexOutOfRange))
	s.True(errdefs.IsOutOfRange(err))

	_, err = cur.At(-101)
	var rangeErr domain.ErrIndexOutOfRange
	s.ErrorAs(err, &rangeErr)
	s.Equal(-101, rangeErr.Index)
	s.Equal(100, rangeErr.Len)

	s.Equal(s.data[2:5], cur.Slice(2, 5))
	s.Equal(s.data[98:], cur.Slice(-2, 1000))
	s.Equal(s.data[:3], cur.Slice(-1000, 3))
	s.Empty(cur.Slice(5, 2))
	s.Equal(s.data, cur.All())

	// random access does not move the iteration
	s.True(cur.Next())
	var obj Obj
	s.NoError(cur.Scan(context.Background(), &obj))
	s.Zero(obj.A)
}

func (s *CursorTestSuite) TestSliceIsCopy() {
	cur, err := NewCursor(context.Background(), s.data[:2])
	s.NoError(err)

	all := cur.All()
	all[0] = nil
	doc, err := cur.At(0)
	s.NoError(err)
	s.NotNil(doc)
}

func (s *CursorTestSuite) TestReadClosed() {
	cur, err := NewCursor(context.Background(), s.data)
	s.NoError(err)

	s.NoError(cur.Close())

	s.False(cur.Next())
	s.Zero(cur.Len())
	s.ErrorIs(cur.Err(), domain.ErrCursorClosed)
}

func (s *CursorTestSuite) TestCreateClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cur, err := NewCursor(ctx, s.data)
	s.ErrorIs(err, context.Canceled)
	s.Nil(cur)
}

func (s *CursorTestSuite) TestCancelAfterCreation() {
	ctx, cancel := context.WithCancel(context.Background())

	cur, err := NewCursor(ctx, s.data)
	s.NoError(err)

	cancel()
	<-ctx.Done()

	s.False(cur.Next())
	s.ErrorIs(cur.Err(), context.Canceled)
}

func (s *CursorTestSuite) TestCancelBeforeScan() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cur, err := NewCursor(ctx, s.data)
	s.NoError(err)

	count := 0
	for cur.Next() {
		cancel()
		<-ctx.Done()

		err := cur.Scan(context.Background(), new(Obj))
		s.ErrorIs(err, context.Canceled)
		count++
	}
	s.Equal(1, count)
}

func (s *CursorTestSuite) TestScanClosedContext() {
	cur, err := NewCursor(context.Background(), s.data)
	s.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count := 0
	for cur.Next() {
		err := cur.Scan(ctx, new(Obj))
		s.ErrorIs(err, context.Canceled)
		count++
	}
	s.Equal(100, count)
}

func (s *CursorTestSuite) TestScanWithoutNext() {
	cur, err := NewCursor(context.Background(), s.data)
	s.NoError(err)

	err = cur.Scan(context.Background(), new(Obj))
	s.ErrorIs(err, domain.ErrScanBeforeNext)
}

func (s *CursorTestSuite) TestCloseClosed() {
	cur, err := NewCursor(context.Background(), s.data)
	s.NoError(err)

	s.NoError(cur.Close())
	s.ErrorIs(cur.Close(), domain.ErrCursorClosed)
}

func (s *CursorTestSuite) TestCustomDecoder() {
	dec := new(decoderMock)

	dec.On("Decode", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args[1].(*Obj).A = -1
		}).
		Return(nil)

	cur, err := NewCursor(context.Background(), s.data[:5], domain.WithCursorDecoder(dec))
	s.NoError(err)

	for cur.Next() {
		var obj Obj
		s.NoError(cur.Scan(context.Background(), &obj))
		s.Equal(-1, obj.A)
	}

	dec.AssertNumberOfCalls(s.T(), "Decode", 5)
}

func TestCursorTestSuite(t *testing.T) {
	suite.Run(t, new(CursorTestSuite))
}
