package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thrasher-corp/fxdx/common/convert"
	"github.com/thrasher-corp/fxdx/exchanges/fxdx"
	"github.com/urfave/cli/v2"
)

var (
	errMissingSymbol    = errors.New("symbol is required")
	errMissingOrderID   = errors.New("at least one order id is required")
	errInvalidOrderType = errors.New("invalid order type, expected ask or bid")
	errInvalidOrderSpec = errors.New("invalid order, expected type:symbol:price:amount")
	errNoOrders         = errors.New("at least one order is required")
)

var nonceCommand = &cli.Command{
	Name:   "nonce",
	Usage:  "fetches a server issued nonce",
	Action: getNonce,
}

var symbolsCommand = &cli.Command{
	Name:   "symbols",
	Usage:  "lists the tradable symbols",
	Action: getSymbols,
}

var depthCommand = &cli.Command{
	Name:      "depth",
	Usage:     "gets the order book of a symbol",
	ArgsUsage: "<symbol>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "symbol", Usage: "the symbol to query, e.g. ETHUSDT"},
	},
	Action: getDepth,
}

var klineCommand = &cli.Command{
	Name:      "kline",
	Usage:     "gets the klines of a symbol",
	ArgsUsage: "<symbol> <scale>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "symbol", Usage: "the symbol to query, e.g. ETHUSDT"},
		&cli.StringFlag{Name: "scale", Value: fxdx.Minute.String(), Usage: "MINUTE, MINUTE_5, MINUTE_15, MINUTE_30, HOUR, HOUR4, DAY or WEEK"},
	},
	Action: getKline,
}

var balancesCommand = &cli.Command{
	Name:   "balances",
	Usage:  "gets the account balance",
	Action: getBalances,
}

var orderCommand = &cli.Command{
	Name:      "order",
	Usage:     "manages orders",
	ArgsUsage: "<command> <args>",
	Subcommands: []*cli.Command{
		{
			Name:      "place",
			Usage:     "places a single order",
			ArgsUsage: "<symbol> <type> <price> <amount>",
			Action:    placeOrder,
		},
		{
			Name:      "batch",
			Usage:     "places several orders",
			ArgsUsage: "<type:symbol:price:amount>...",
			Action:    placeBatchOrders,
		},
		{
			Name:      "cancel",
			Usage:     "cancels one order, or several when more than one id is supplied",
			ArgsUsage: "<symbol> <order_id>...",
			Action:    cancelOrders,
		},
		{
			Name:      "get",
			Usage:     "gets a single order",
			ArgsUsage: "<symbol> <order_id>",
			Action:    getOrder,
		},
		{
			Name:      "list",
			Usage:     "gets a page of orders",
			ArgsUsage: "<symbol> [page] [size]",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "page", Value: 1, Usage: "the page to fetch"},
				&cli.IntFlag{Name: "size", Value: 20, Usage: "the page size"},
				&cli.BoolFlag{Name: "pending", Usage: "only return pending orders"},
			},
			Action: listOrders,
		},
	},
}

// argOrFlag returns the named flag when set, otherwise the positional argument
func argOrFlag(c *cli.Context, name string, pos int) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return c.Args().Get(pos)
}

func parseOrderType(s string) (fxdx.OrderType, error) {
	switch strings.ToLower(s) {
	case "ask", "sell", "0":
		return fxdx.Ask, nil
	case "bid", "buy", "1":
		return fxdx.Bid, nil
	default:
		return 0, fmt.Errorf("%w: %q", errInvalidOrderType, s)
	}
}

func parseOrder(orderType, symbol, price, amount string) (fxdx.PendingOrder, error) {
	if symbol == "" {
		return fxdx.PendingOrder{}, errMissingSymbol
	}
	ot, err := parseOrderType(orderType)
	if err != nil {
		return fxdx.PendingOrder{}, err
	}
	p, err := convert.DecimalFromString(price)
	if err != nil {
		return fxdx.PendingOrder{}, err
	}
	a, err := convert.DecimalFromString(amount)
	if err != nil {
		return fxdx.PendingOrder{}, err
	}
	return fxdx.NewPendingOrder(ot, strings.ToUpper(symbol), p, a), nil
}

// parseOrderSpec parses type:symbol:price:amount
func parseOrderSpec(spec string) (fxdx.PendingOrder, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return fxdx.PendingOrder{}, fmt.Errorf("%w: %q", errInvalidOrderSpec, spec)
	}
	return parseOrder(parts[0], parts[1], parts[2], parts[3])
}

func getNonce(c *cli.Context) error {
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.FetchNonce(c.Context)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func getSymbols(c *cli.Context) error {
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.QuerySymbols(c.Context, fxdx.Symbols{})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func getDepth(c *cli.Context) error {
	symbol := argOrFlag(c, "symbol", 0)
	if symbol == "" {
		return errMissingSymbol
	}
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.QueryDepth(c.Context, fxdx.Depth{Symbol: strings.ToUpper(symbol)})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func getKline(c *cli.Context) error {
	symbol := argOrFlag(c, "symbol", 0)
	if symbol == "" {
		return errMissingSymbol
	}
	scaleName := argOrFlag(c, "scale", 1)
	if scaleName == "" {
		scaleName = c.String("scale")
	}
	scale, err := fxdx.ParseScale(strings.ToUpper(scaleName))
	if err != nil {
		return err
	}
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.QueryKline(c.Context, fxdx.Kline{Symbol: strings.ToUpper(symbol), Scale: scale})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func getBalances(c *cli.Context) error {
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.QueryAccountBalance(c.Context, fxdx.Balances{})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func placeOrder(c *cli.Context) error {
	if c.NArg() != 4 {
		return cli.ShowSubcommandHelp(c)
	}
	args := c.Args()
	order, err := parseOrder(args.Get(1), args.Get(0), args.Get(2), args.Get(3))
	if err != nil {
		return err
	}
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.PendingOrder(c.Context, order)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func placeBatchOrders(c *cli.Context) error {
	if c.NArg() == 0 {
		return errNoOrders
	}
	orders := make([]fxdx.Request, c.NArg())
	for i, spec := range c.Args().Slice() {
		o, err := parseOrderSpec(spec)
		if err != nil {
			return err
		}
		orders[i] = o
	}
	batch, err := fxdx.NewBatchPendingOrders(orders...)
	if err != nil {
		return err
	}
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.BatchPendingOrders(c.Context, batch)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func cancelOrders(c *cli.Context) error {
	symbol := strings.ToUpper(c.Args().First())
	if symbol == "" {
		return errMissingSymbol
	}
	ids := c.Args().Tail()
	if len(ids) == 0 {
		return errMissingOrderID
	}
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()

	if len(ids) == 1 {
		resp, err := client.CancelOrder(c.Context, fxdx.CancelOrder{Symbol: symbol, OrderID: ids[0]})
		if err != nil {
			return err
		}
		return jsonOutput(c.App.Writer, resp)
	}
	resp, err := client.BatchCancelOrders(c.Context, fxdx.BatchCancelOrders{Symbol: symbol, OrderIDs: ids})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func getOrder(c *cli.Context) error {
	symbol := strings.ToUpper(c.Args().Get(0))
	if symbol == "" {
		return errMissingSymbol
	}
	id := c.Args().Get(1)
	if id == "" {
		return errMissingOrderID
	}
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.QueryOrderByID(c.Context, fxdx.OrderByID{Symbol: symbol, OrderID: id})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}

func listOrders(c *cli.Context) error {
	symbol := strings.ToUpper(c.Args().First())
	if symbol == "" {
		return errMissingSymbol
	}
	page, size := c.Int("page"), c.Int("size")
	var err error
	if !c.IsSet("page") && c.Args().Get(1) != "" {
		if page, err = convert.IntFromString(c.Args().Get(1)); err != nil {
			return err
		}
	}
	if !c.IsSet("size") && c.Args().Get(2) != "" {
		if size, err = convert.IntFromString(c.Args().Get(2)); err != nil {
			return err
		}
	}
	client, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := client.QueryOrdersByPage(c.Context, fxdx.OrderByPage{
		Symbol:  symbol,
		Page:    page,
		Size:    size,
		Pending: c.Bool("pending"),
	})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, resp)
}
