package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"poolScope/internal/chain"
	"poolScope/internal/model"
)

type fakeSource struct {
	objects  []chain.Object
	metaErr  error
	metaSeen []string
}

func (f *fakeSource) GetObjects(ctx context.Context, ids []string) ([]chain.Object, error) {
	return f.objects, nil
}

func (f *fakeSource) CoinMetadata(ctx context.Context, coinType string) (chain.CoinMeta, error) {
	f.metaSeen = append(f.metaSeen, coinType)
	if f.metaErr != nil {
		return chain.CoinMeta{}, f.metaErr
	}
	return chain.CoinMeta{CoinType: coinType, Decimals: 9, Symbol: "SUI"}, nil
}

type memoryWriter struct {
	records []model.SnapshotRecord
}

func (m *memoryWriter) Write(value interface{}) error {
	m.records = append(m.records, value.(model.SnapshotRecord))
	return nil
}

var testTypes = chain.ObjectTypes{
	Pool: "0xa1::pool::Pool",
	Bank: "0xf1::bank::Bank",
}

func testObjects() []chain.Object {
	return []chain.Object{
		{
			ObjectID: "0x1",
			Version:  "4",
			Type:     "0xf1::bank::Bank<0x2::sui::SUI>",
			Content: &chain.ObjectContent{
				Fields: json.RawMessage(`{"ftoken_type":"0xf1::ftoken::FToken<0x2::sui::SUI>","funds_available":"1","ftoken_supply":"1","total_funds":"1"}`),
			},
		},
		{
			ObjectID: "0x2",
			Version:  "9",
			Type:     "0x2::coin::Coin<0x2::sui::SUI>",
			Content:  &chain.ObjectContent{Fields: json.RawMessage(`{"balance":"1"}`)},
		},
		{
			ObjectID: "0x3",
			Version:  "x",
			Type:     "0xa1::pool::Pool<A,B,C>",
			Content:  &chain.ObjectContent{Fields: json.RawMessage(`{}`)},
		},
	}
}

func TestRunWritesObjectsAndCoins(t *testing.T) {
	source := &fakeSource{objects: testObjects()}
	out := &memoryWriter{}
	runner := NewRunner(RunConfig{Objects: []string{"0x1", "0x2", "0x3"}, Types: testTypes}, source, out, nil)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := Summary{Objects: 3, Banks: 1, Coins: 1, Skipped: 1, Failed: 1}
	if summary != want {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(out.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out.records))
	}
	if out.records[0].Kind != model.KindBank || out.records[1].Kind != model.KindCoin {
		t.Fatalf("unexpected kinds: %s, %s", out.records[0].Kind, out.records[1].Kind)
	}
	if len(source.metaSeen) != 1 || source.metaSeen[0] != "0x2::sui::SUI" {
		t.Fatalf("unexpected metadata lookups: %v", source.metaSeen)
	}
}

func TestRunFailsOnMetadataError(t *testing.T) {
	metaErr := errors.New("boom")
	source := &fakeSource{objects: testObjects(), metaErr: metaErr}
	runner := NewRunner(RunConfig{Objects: []string{"0x1"}, Types: testTypes}, source, &memoryWriter{}, nil)

	if _, err := runner.Run(context.Background()); !errors.Is(err, metaErr) {
		t.Fatalf("expected metadata error, got %v", err)
	}
}

func TestRunRequiresObjects(t *testing.T) {
	runner := NewRunner(RunConfig{Types: testTypes}, &fakeSource{}, &memoryWriter{}, nil)
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected error without objects")
	}
}
