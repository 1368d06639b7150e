// Package csvsource carrega os arquivos CSV de pledges, pagamentos e cotações em tabelas tipadas
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/oftw/impact-dashboard-api/pkg/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// maxIssuesPerFile limita as ocorrências guardadas no relatório de carga
const maxIssuesPerFile = 50

type Loader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

type Options struct {
	PledgeFile      string
	PaymentsFile    string
	ExchangeRateDir string
	Series          []domain.RateSeries
}

// RateFile retorna o caminho do arquivo de uma série no formato <SERIE>_exchange_rates.csv
func (o Options) RateFile(series domain.RateSeries) string {
	return filepath.Join(o.ExchangeRateDir, series.Code+"_exchange_rates.csv")
}

type csvLoader struct {
	opts Options
}

func New(opts Options) Loader {
	return &csvLoader{opts: opts}
}

// Load lê as três origens em paralelo. O primeiro erro estrutural cancela as demais leituras.
func (l *csvLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		pledges       []domain.Pledge
		payments      []domain.Payment
		pledgeReport  domain.FileReport
		paymentReport domain.FileReport
		rateLists     = make([][]domain.ExchangeRate, len(l.opts.Series))
		rateReports   = make([]domain.FileReport, len(l.opts.Series))
	)

	g.Go(func() error {
		var err error
		pledges, pledgeReport, err = l.loadPledges(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		payments, paymentReport, err = l.loadPayments(ctx)
		return err
	})

	for i, series := range l.opts.Series {
		i, series := i, series
		g.Go(func() error {
			var err error
			rateLists[i], rateReports[i], err = l.loadRates(ctx, series)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rates []domain.ExchangeRate
	for _, list := range rateLists {
		rates = append(rates, list...)
	}

	report := domain.LoadReport{
		Files: append([]domain.FileReport{pledgeReport, paymentReport}, rateReports...),
	}

	return &domain.Dataset{
		Pledges:  pledges,
		Payments: payments,
		Rates:    domain.NewRateTable(rates),
		Report:   report,
	}, nil
}

func (l *csvLoader) loadPledges(ctx context.Context) ([]domain.Pledge, domain.FileReport, error) {
	var pledges []domain.Pledge

	report, err := readFile(ctx, domain.SourcePledges, l.opts.PledgeFile, pledgeSchema,
		func(record []string, cols columns) *ParseError {
			pledge, perr := parsePledge(record, cols)
			if perr != nil {
				return perr
			}
			pledges = append(pledges, pledge)
			return nil
		})

	return pledges, report, err
}

func (l *csvLoader) loadPayments(ctx context.Context) ([]domain.Payment, domain.FileReport, error) {
	var payments []domain.Payment

	report, err := readFile(ctx, domain.SourcePayments, l.opts.PaymentsFile, paymentSchema,
		func(record []string, cols columns) *ParseError {
			payment, perr := parsePayment(record, cols)
			if perr != nil {
				return perr
			}
			payments = append(payments, payment)
			return nil
		})

	return payments, report, err
}

func (l *csvLoader) loadRates(ctx context.Context, series domain.RateSeries) ([]domain.ExchangeRate, domain.FileReport, error) {
	var rates []domain.ExchangeRate

	report, err := readFile(ctx, domain.SourceExchangeRates, l.opts.RateFile(series), rateSchema(series.Code),
		func(record []string, cols columns) *ParseError {
			rate, perr := parseRate(record, cols, series)
			if perr != nil {
				return perr
			}
			rates = append(rates, rate)
			return nil
		})

	return rates, report, err
}

// rowHandler converte um registro; o arquivo e a linha do ParseError são preenchidos por readFile
type rowHandler func(record []string, cols columns) *ParseError

// readFile valida o cabeçalho e entrega cada registro ao handler, descartando e reportando as linhas inválidas
func readFile(ctx context.Context, source, path string, sch schema, handle rowHandler) (domain.FileReport, error) {
	report := domain.FileReport{Source: source, File: path}
	logger := log.L.WithField("file", path)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, &MissingFileError{File: path}
		}
		return report, errors.Wrapf(err, "erro ao abrir o arquivo %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return report, &SchemaError{File: path, Missing: sch.sortedRequired()}
	}
	if err != nil {
		return report, errors.Wrapf(err, "erro ao ler o cabeçalho de %s", path)
	}

	cols, err := sch.bind(path, header)
	if err != nil {
		return report, err
	}

	skip := func(perr *ParseError) {
		perr.File = path
		report.Skipped++
		if len(report.Issues) < maxIssuesPerFile {
			report.Issues = append(report.Issues, domain.RowIssue{Line: perr.Line, Column: perr.Column, Reason: perr.Reason})
		}
		logger.WithField("line", perr.Line).Warnf("Linha descartada: %s", perr.Error())
	}

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			report.Rows++
			skip(&ParseError{Line: csvErr.StartLine, Reason: csvErr.Err.Error()})
			continue
		}
		if err != nil {
			return report, errors.Wrapf(err, "erro ao ler %s", path)
		}

		report.Rows++
		line, _ := reader.FieldPos(0)

		if len(record) != len(header) {
			skip(&ParseError{Line: line, Reason: fmt.Sprintf("esperadas %d colunas, encontradas %d", len(header), len(record))})
			continue
		}

		if perr := handle(record, cols); perr != nil {
			perr.Line = line
			skip(perr)
			continue
		}

		report.Loaded++
	}

	logger.Infof("Arquivo carregado: %d linhas, %d válidas, %d descartadas", report.Rows, report.Loaded, report.Skipped)

	return report, nil
}
