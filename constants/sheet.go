package constants

// SheetName is the worksheet the batch writes to.
const SheetName = "Faturas"

// Fixed column headers, in output order.
const (
	ColumnPath          = "Caminho do PDF"
	ColumnDate          = "Data"
	ColumnConsumerUnit  = "Unidade Consumidora"
	ColumnEnergyMUC     = "Energia Atv Injetada mUC"
	ColumnEnergyOUC     = "Energia Atv Injetada oUC"
	ColumnEnergyOffPeak = "Energia Atv Injetada - Fora Ponta"
)

// Extended column headers, appended after the fixed ones on request.
const (
	ColumnClassification = "Classificação"
	ColumnServiceType    = "Tipo de Serviço"
	ColumnInjected       = "Injetada?"
	ColumnLimitMin       = "Lim. Min."
	ColumnLimitMax       = "Lim. Max."
)

var Columns = []string{
	ColumnPath,
	ColumnDate,
	ColumnConsumerUnit,
	ColumnEnergyMUC,
	ColumnEnergyOUC,
	ColumnEnergyOffPeak,
}

var ExtendedColumns = []string{
	ColumnClassification,
	ColumnServiceType,
	ColumnInjected,
	ColumnLimitMin,
	ColumnLimitMax,
}

// Defaults used by the command line when paths are omitted.
const (
	DefaultInputDir  = "faturas"
	DefaultOutputDir = "saidas_excel"
	OutputFilePrefix = "faturas_processadas_"
	OutputTimestamp  = "20060102_1504"
	OutputFileExt    = ".xlsx"
)
