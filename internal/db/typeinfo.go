package db

import (
	gocql "github.com/apache/cassandra-gocql-driver/v2"

	"github.com/cqlview/cqlview/internal/cql"
)

// dataTypeFromTypeInfo converts the driver's type metadata into the
// descriptor carried on ExtendedColumnName. Virtual tables can report nil
// TypeInfo; those columns are treated as text.
func dataTypeFromTypeInfo(info gocql.TypeInfo) cql.DataType {
	if info == nil {
		return cql.TextType()
	}

	switch info.Type() {
	case gocql.TypeList, gocql.TypeSet, gocql.TypeMap:
		if coll, ok := info.(gocql.CollectionType); ok {
			switch coll.Type() {
			case gocql.TypeList:
				return cql.DataType{Base: "list", Params: []cql.DataType{dataTypeFromTypeInfo(coll.Elem)}}
			case gocql.TypeSet:
				return cql.DataType{Base: "set", Params: []cql.DataType{dataTypeFromTypeInfo(coll.Elem)}}
			case gocql.TypeMap:
				return cql.DataType{Base: "map", Params: []cql.DataType{
					dataTypeFromTypeInfo(coll.Key), dataTypeFromTypeInfo(coll.Elem),
				}}
			}
		}
	case gocql.TypeTuple:
		if tuple, ok := info.(gocql.TupleTypeInfo); ok {
			params := make([]cql.DataType, len(tuple.Elems))
			for i, elem := range tuple.Elems {
				params[i] = dataTypeFromTypeInfo(elem)
			}
			return cql.DataType{Base: "tuple", Params: params}
		}
	case gocql.TypeUDT:
		if udt, ok := info.(gocql.UDTTypeInfo); ok {
			name := udt.Name
			if udt.Keyspace != "" {
				name = udt.Keyspace + "." + udt.Name
			}
			return cql.DataType{Base: name}
		}
	}

	return cql.DataType{Base: typeName(info.Type())}
}

func typeName(t gocql.Type) string {
	switch t {
	case gocql.TypeCustom:
		return "custom"
	case gocql.TypeAscii:
		return "ascii"
	case gocql.TypeBigInt:
		return "bigint"
	case gocql.TypeBlob:
		return "blob"
	case gocql.TypeBoolean:
		return "boolean"
	case gocql.TypeCounter:
		return "counter"
	case gocql.TypeDecimal:
		return "decimal"
	case gocql.TypeDouble:
		return "double"
	case gocql.TypeFloat:
		return "float"
	case gocql.TypeInt:
		return "int"
	case gocql.TypeText:
		return "text"
	case gocql.TypeTimestamp:
		return "timestamp"
	case gocql.TypeUUID:
		return "uuid"
	case gocql.TypeVarchar:
		return "varchar"
	case gocql.TypeVarint:
		return "varint"
	case gocql.TypeTimeUUID:
		return "timeuuid"
	case gocql.TypeInet:
		return "inet"
	case gocql.TypeDate:
		return "date"
	case gocql.TypeTime:
		return "time"
	case gocql.TypeDuration:
		return "duration"
	case gocql.TypeSmallInt:
		return "smallint"
	case gocql.TypeTinyInt:
		return "tinyint"
	case gocql.TypeList:
		return "list"
	case gocql.TypeMap:
		return "map"
	case gocql.TypeSet:
		return "set"
	case gocql.TypeTuple:
		return "tuple"
	case gocql.TypeUDT:
		return "udt"
	default:
		return "unknown"
	}
}
