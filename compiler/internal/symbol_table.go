package internal

// A class is compiled with two symbol tables: the class table holds static and
// field variables and lives for the whole class, the function table holds
// arguments and locals and is rebuilt for every subroutine.

type SymbolType int

const (
	ClassStaticVariableSymbolType SymbolType = iota // static
	ClassVariableSymbolType                         // field
	FuncParamType                                   // argument
	FuncVariableType                                // local
)

func (tp SymbolType) String() string {
	switch tp {
	case ClassStaticVariableSymbolType:
		return "static"
	case ClassVariableSymbolType:
		return "field"
	case FuncParamType:
		return "argument"
	}
	return "local"
}

type SymbolDesc struct {
	name         string
	symbolType   SymbolType
	variableType VariableType
	index        int
}

func (desc *SymbolDesc) Name() string {
	return desc.name
}

func (desc *SymbolDesc) SymbolType() SymbolType {
	return desc.symbolType
}

func (desc *SymbolDesc) VariableType() VariableType {
	return desc.variableType
}

// Index is the slot of the symbol inside its segment.
func (desc *SymbolDesc) Index() int {
	return desc.index
}

type SymbolTable struct {
	symbols map[string]*SymbolDesc
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*SymbolDesc{}}
}

// Define adds name to the table. Its index is the number of symbols of the same
// kind already defined, so slots are dense and follow declaration order.
// It returns false and leaves the table untouched if name is already defined.
func (table *SymbolTable) Define(name string, variableType VariableType, symbolType SymbolType) (*SymbolDesc, bool) {
	if _, ok := table.symbols[name]; ok {
		return nil, false
	}
	desc := &SymbolDesc{
		name:         name,
		symbolType:   symbolType,
		variableType: variableType,
		index:        table.Count(symbolType),
	}
	table.symbols[name] = desc
	return desc, true
}

// Count returns how many symbols of symbolType the table holds.
func (table *SymbolTable) Count(symbolType SymbolType) int {
	count := 0
	for _, desc := range table.symbols {
		if desc.symbolType == symbolType {
			count++
		}
	}
	return count
}

func (table *SymbolTable) LookUp(name string) *SymbolDesc {
	return table.symbols[name]
}

// Scope resolves names against a subroutine table first and the class table second.
// A subroutine symbol silently hides a class symbol of the same name.
type Scope struct {
	ClassSymbols *SymbolTable
	FuncSymbols  *SymbolTable
}

func (scope Scope) LookUp(name string) *SymbolDesc {
	if scope.FuncSymbols != nil {
		if desc := scope.FuncSymbols.LookUp(name); desc != nil {
			return desc
		}
	}
	if scope.ClassSymbols != nil {
		return scope.ClassSymbols.LookUp(name)
	}
	return nil
}
