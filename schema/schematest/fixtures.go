package schematest

import (
	"github.com/wippyai/flatdyn/reflection"
)

// Object indexes of the Monster fixture.
const (
	MonsterObj = 0
	PathObj    = 1
	Vec3Obj    = 2
	WeaponObj  = 3
)

// EquipmentEnum is the union enum index of the Monster fixture.
const EquipmentEnum = 0

// Point describes
//
//	table Point { x:int; y:int; }
//	root_type Point;
func Point() Schema {
	return Schema{
		Objects: []Object{
			Table("Point",
				F("x", Scalar(reflection.BaseTypeInt)),
				F("y", Scalar(reflection.BaseTypeInt)),
			),
		},
		RootTable: 0,
	}
}

// Monster describes
//
//	struct Vec3 { x:float; y:float; z:float; }
//	struct Path { start:Vec3; end:Vec3; steps:[ushort:2]; closed:bool; }
//	table Weapon { name:string; damage:short; }
//	union Equipment { Weapon }
//	table Monster {
//	  pos:Vec3; mana:short = 150; hp:short = 100; name:string (required);
//	  inventory:[ubyte]; friendly:bool (deprecated); weapons:[Weapon];
//	  equipped:Equipment; path:[Vec3]; tags:[string]; enemy:Monster;
//	  score:double; id:ulong; route:Path;
//	}
//	root_type Monster;
//	file_identifier "MONS";
func Monster() Schema {
	vec3 := Struct("Vec3", 4, 12,
		At("x", Scalar(reflection.BaseTypeFloat), 0),
		At("y", Scalar(reflection.BaseTypeFloat), 4),
		At("z", Scalar(reflection.BaseTypeFloat), 8),
	)
	path := Struct("Path", 4, 32,
		At("start", Obj(Vec3Obj), 0),
		At("end", Obj(Vec3Obj), 12),
		At("steps", Array(reflection.BaseTypeUShort, 2), 24),
		At("closed", Scalar(reflection.BaseTypeBool), 28),
	)
	weapon := Table("Weapon",
		F("name", String()),
		F("damage", Scalar(reflection.BaseTypeShort)),
	)

	monster := Table("Monster",
		F("pos", Obj(Vec3Obj)),
		F("mana", Scalar(reflection.BaseTypeShort)),
		F("hp", Scalar(reflection.BaseTypeShort)),
		F("name", String()),
		F("inventory", Vector(reflection.BaseTypeUByte)),
		F("friendly", Scalar(reflection.BaseTypeBool)),
		F("weapons", VectorOfObj(WeaponObj)),
		F("equipped_type", UnionType(EquipmentEnum)),
		F("equipped", Union(EquipmentEnum)),
		F("path", VectorOfObj(Vec3Obj)),
		F("tags", Vector(reflection.BaseTypeString)),
		F("enemy", Obj(MonsterObj)),
		F("score", Scalar(reflection.BaseTypeDouble)),
		F("id", Scalar(reflection.BaseTypeULong)),
		F("route", Obj(PathObj)),
	)
	monster.Fields[1].DefaultInteger = 150
	monster.Fields[2].DefaultInteger = 100
	monster.Fields[3].Required = true
	monster.Fields[5].Deprecated = true

	weaponType := Obj(WeaponObj)
	return Schema{
		Objects: []Object{monster, path, vec3, weapon},
		Enums: []Enum{{
			Name:    "Equipment",
			IsUnion: true,
			Values: []EnumVal{
				{Name: "NONE", Value: 0},
				{Name: "Weapon", Value: 1, UnionType: &weaponType},
			},
		}},
		FileIdent: "MONS",
		FileExt:   "mon",
		RootTable: MonsterObj,
	}
}
