package wallet

import (
	"errors"
	"math/big"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"aawallet/core/events"
	"aawallet/storage"
)

var (
	testOwner      = ethcommon.HexToAddress("0x00000000000000000000000000000000000000a1")
	testDispatcher = ethcommon.HexToAddress("0x00000000000000000000000000000000000000d1")
	testSponsor    = ethcommon.HexToAddress("0x00000000000000000000000000000000000000f1")
	testRouterAddr = ethcommon.HexToAddress("0x00000000000000000000000000000000000000c1")
	testWalletAddr = ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1")
	testAdmin      = ethcommon.HexToAddress("0x00000000000000000000000000000000000000b1")
	testRecipient  = ethcommon.HexToAddress("0x0000000000000000000000000000000000000099")

	tokenAddrA = ethcommon.HexToAddress("0x0000000000000000000000000000000000000011")
	tokenAddrB = ethcommon.HexToAddress("0x0000000000000000000000000000000000000022")
	feedAddrA  = ethcommon.HexToAddress("0x0000000000000000000000000000000000000f11")
	feedAddrB  = ethcommon.HexToAddress("0x0000000000000000000000000000000000000f22")
)

type memToken struct {
	decimals  uint8
	balances  map[ethcommon.Address]*big.Int
	approvals map[ethcommon.Address]*big.Int
	holder    ethcommon.Address

	failTransfer bool
	falsyReturn  bool
	onTransfer   func()
}

func newMemToken(decimals uint8, holder ethcommon.Address, balance *big.Int) *memToken {
	return &memToken{
		decimals:  decimals,
		holder:    holder,
		balances:  map[ethcommon.Address]*big.Int{holder: new(big.Int).Set(balance)},
		approvals: map[ethcommon.Address]*big.Int{},
	}
}

func (t *memToken) balance(addr ethcommon.Address) *big.Int {
	if b, ok := t.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

func (t *memToken) BalanceOf(account ethcommon.Address) (*big.Int, error) {
	return t.balance(account), nil
}

func (t *memToken) Decimals() (uint8, error) { return t.decimals, nil }

func (t *memToken) Transfer(to ethcommon.Address, amount *big.Int) (bool, error) {
	if t.onTransfer != nil {
		t.onTransfer()
	}
	if t.failTransfer {
		return false, errors.New("transfer reverted")
	}
	if t.falsyReturn {
		return false, nil
	}
	from := t.holder
	have := t.balance(from)
	if have.Cmp(amount) < 0 {
		return false, errors.New("insufficient balance")
	}
	t.balances[from] = have.Sub(have, amount)
	t.balances[to] = new(big.Int).Add(t.balance(to), amount)
	return true, nil
}

func (t *memToken) Approve(spender ethcommon.Address, amount *big.Int) (bool, error) {
	t.approvals[spender] = new(big.Int).Set(amount)
	return true, nil
}

type tokenMap map[ethcommon.Address]ERC20

func (m tokenMap) Token(addr ethcommon.Address) (ERC20, bool) {
	t, ok := m[addr]
	return t, ok
}

type memFeed struct {
	decimals uint8
	round    RoundData
	err      error
}

func (f *memFeed) LatestRoundData() (RoundData, error) {
	if f.err != nil {
		return RoundData{}, f.err
	}
	return f.round, nil
}

func (f *memFeed) Decimals() (uint8, error) { return f.decimals, nil }

type feedMap map[ethcommon.Address]PriceFeed

func (m feedMap) Feed(addr ethcommon.Address) (PriceFeed, bool) {
	f, ok := m[addr]
	return f, ok
}

type stubRouter struct {
	lastParams ExactInputSingleParams
	amountOut  *big.Int
	err        error
	panics     bool
	calls      int
}

func (r *stubRouter) ExactInputSingle(params ExactInputSingleParams) (*big.Int, error) {
	r.calls++
	r.lastParams = params
	if r.panics {
		panic("router fault")
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.amountOut == nil {
		return new(big.Int).Set(params.AmountIn), nil
	}
	return new(big.Int).Set(r.amountOut), nil
}

type stubRegistry struct {
	owner ethcommon.Address
}

func (r *stubRegistry) Owner() (ethcommon.Address, error) { return r.owner, nil }

type stubNative struct {
	sends []struct {
		to     ethcommon.Address
		amount *big.Int
	}
	err error
}

func (n *stubNative) Send(to ethcommon.Address, amount *big.Int) error {
	n.sends = append(n.sends, struct {
		to     ethcommon.Address
		amount *big.Int
	}{to, new(big.Int).Set(amount)})
	return n.err
}

type stubInvoker struct {
	lastTarget ethcommon.Address
	lastValue  *big.Int
	ret        []byte
	err        error
}

func (i *stubInvoker) Call(target ethcommon.Address, value *big.Int, payload []byte) ([]byte, error) {
	i.lastTarget = target
	i.lastValue = value
	if i.err != nil {
		return nil, i.err
	}
	return i.ret, nil
}

type memEmitter struct {
	types []string
}

func (e *memEmitter) Emit(evt events.Event) {
	e.types = append(e.types, evt.EventType())
}

type fixture struct {
	wallet   *Wallet
	tokenA   *memToken
	tokenB   *memToken
	feedA    *memFeed
	feedB    *memFeed
	router   *stubRouter
	registry *stubRegistry
	native   *stubNative
	invoker  *stubInvoker
	now      time.Time
}

func defaultParams() Params {
	return Params{
		FeeInCents:               big.NewInt(50),
		MaxFeeInCents:            big.NewInt(100),
		PoolFeeLow:               500,
		PoolFeeMedium:            3000,
		PoolFeeHigh:              10000,
		SlippageMaxBps:           500,
		MaxDeadlineSeconds:       1800,
		PriceFreshnessSeconds:    3600,
		PriceFeedPrecisionDigits: 8,
	}
}

// newFixture builds an initialized wallet holding 10^12 units of two
// 6-decimal tokens, each priced at 1.00000000 by its feed, both whitelisted.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Unix(1_700_000_000, 0).UTC()

	tokenA := newMemToken(6, testWalletAddr, big.NewInt(1_000_000_000_000))
	tokenB := newMemToken(6, testWalletAddr, big.NewInt(1_000_000_000_000))
	feedA := &memFeed{decimals: 8, round: RoundData{
		RoundID:         big.NewInt(10),
		Answer:          big.NewInt(100_000_000),
		UpdatedAt:       now.Unix(),
		AnsweredInRound: big.NewInt(10),
	}}
	feedB := &memFeed{decimals: 8, round: RoundData{
		RoundID:         big.NewInt(7),
		Answer:          big.NewInt(100_000_000),
		UpdatedAt:       now.Unix(),
		AnsweredInRound: big.NewInt(7),
	}}
	router := &stubRouter{}
	registry := &stubRegistry{owner: testAdmin}
	native := &stubNative{}
	invoker := &stubInvoker{}

	w, err := New(Config{
		Address:    testWalletAddr,
		Owner:      testOwner,
		Dispatcher: testDispatcher,
		FeeSponsor: testSponsor,
		RouterAddr: testRouterAddr,
		ChainID:    big.NewInt(1),
		Store:      storage.NewKV(storage.NewMemDB()),
		Feeds:      feedMap{feedAddrA: feedA, feedAddrB: feedB},
		Tokens:     tokenMap{tokenAddrA: tokenA, tokenAddrB: tokenB},
		Router:     router,
		Registry:   registry,
		Native:     native,
		Invoker:    invoker,
	})
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}
	w.SetClock(func() time.Time { return now })
	if err := w.Initialize(defaultParams()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := w.WhitelistToken(testOwner, tokenAddrA, feedAddrA); err != nil {
		t.Fatalf("whitelist token A: %v", err)
	}
	if err := w.WhitelistToken(testOwner, tokenAddrB, feedAddrB); err != nil {
		t.Fatalf("whitelist token B: %v", err)
	}
	return &fixture{
		wallet:   w,
		tokenA:   tokenA,
		tokenB:   tokenB,
		feedA:    feedA,
		feedB:    feedB,
		router:   router,
		registry: registry,
		native:   native,
		invoker:  invoker,
		now:      now,
	}
}
